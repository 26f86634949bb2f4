package cv

import (
	"image"
	"strings"
	"testing"

	"gocv.io/x/gocv"

	"github.com/screenhelper/screenhelper/pkg/match"
)

func newTestMat() gocv.Mat {
	return gocv.NewMatWithSize(10, 10, gocv.MatTypeCV8UC3)
}

func TestBoundsOf(t *testing.T) {
	cand := match.Candidate{
		Position:   match.Point{X: 100, Y: 80},
		Dimensions: match.Size{Width: 40, Height: 20},
	}

	got := boundsOf(cand)
	want := image.Rect(80, 70, 120, 90)
	if got != want {
		t.Errorf("boundsOf() = %v, want %v", got, want)
	}
}

func TestNoMatchErrorMessage(t *testing.T) {
	err := &NoMatchError{Best: 0.6123, Threshold: 0.8}
	msg := err.Error()
	if !strings.Contains(msg, "0.6123") || !strings.Contains(msg, "0.8000") {
		t.Errorf("错误信息应包含分数与阈值: %q", msg)
	}
}

func TestMatcherOptions(t *testing.T) {
	m := NewMatcher(WithScaleFactor(2), WithThreshold(0.9))
	if m.scaleFactor != 2 {
		t.Errorf("scaleFactor = %v, want 2", m.scaleFactor)
	}
	if m.Threshold() != 0.9 {
		t.Errorf("Threshold() = %v, want 0.9", m.Threshold())
	}

	// 非法缩放因子被忽略
	m = NewMatcher(WithScaleFactor(0))
	if m.scaleFactor != 1 {
		t.Errorf("非法缩放因子应保持默认值 1, got %v", m.scaleFactor)
	}
}

func TestTemplateRegistry(t *testing.T) {
	m := NewMatcher()

	id := m.AddTemplate(newTestMat())
	if !strings.HasPrefix(id, "templates_") {
		t.Errorf("模板标识符格式错误: %q", id)
	}

	if _, ok := m.TemplateFor(id); !ok {
		t.Error("登记后应能取回模板")
	}
	if _, ok := m.TemplateFor("templates_missing"); ok {
		t.Error("未登记的标识符不应命中")
	}

	id2 := m.AddTemplate(newTestMat())
	if id == id2 {
		t.Error("模板标识符应唯一")
	}
}

func TestRegisterTemplateReuse(t *testing.T) {
	m := NewMatcher()
	defer m.Close()

	a := gocv.NewMatWithSizeFromScalar(gocv.NewScalar(10, 20, 30, 0), 5, 5, gocv.MatTypeCV8UC3)
	defer a.Close()
	b := gocv.NewMatWithSizeFromScalar(gocv.NewScalar(10, 20, 30, 0), 5, 5, gocv.MatTypeCV8UC3)
	defer b.Close()
	c := gocv.NewMatWithSizeFromScalar(gocv.NewScalar(40, 50, 60, 0), 5, 5, gocv.MatTypeCV8UC3)
	defer c.Close()

	id1 := m.registerTemplate(a)
	id2 := m.registerTemplate(b)
	if id1 != id2 {
		t.Errorf("相同内容的模板应复用标识符: %q vs %q", id1, id2)
	}
	if id3 := m.registerTemplate(c); id3 == id1 {
		t.Error("不同内容的模板不应复用标识符")
	}
	if _, ok := m.TemplateFor(id1); !ok {
		t.Error("复用的标识符应能取回模板")
	}
	if len(m.templates) != 2 {
		t.Errorf("留存的模板副本数 = %d, want 2", len(m.templates))
	}
}

func TestAnnotateMatchesBadFont(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 10, 10))
	_, err := AnnotateMatches(img, nil, []byte("not a font"))
	if err == nil {
		t.Fatal("非法字体数据应返回错误")
	}
}
