package locate

import (
	"testing"

	"github.com/screenhelper/screenhelper/pkg/auto"
	"github.com/screenhelper/screenhelper/pkg/config"
	"github.com/screenhelper/screenhelper/pkg/match"
	"github.com/screenhelper/screenhelper/pkg/vision/ocr"
)

func textQuery(text string) ocr.TokenQuery {
	return ocr.TokenQuery{Text: text}
}

func TestShiftCandidates(t *testing.T) {
	candidates := []match.Candidate{
		{Position: match.Point{X: 10, Y: 20}},
		{Position: match.Point{X: 0, Y: 0}},
	}

	shifted := shiftCandidates(candidates, &auto.Region{X: 100, Y: 200, Width: 50, Height: 50})
	if shifted[0].Position.X != 110 || shifted[0].Position.Y != 220 {
		t.Errorf("平移后坐标 = %+v", shifted[0].Position)
	}
	if shifted[1].Position.X != 100 || shifted[1].Position.Y != 200 {
		t.Errorf("平移后坐标 = %+v", shifted[1].Position)
	}

	// 原切片不被修改
	if candidates[0].Position.X != 10 {
		t.Error("shiftCandidates 不应修改输入")
	}

	same := shiftCandidates(candidates, nil)
	if same[0].Position.X != 10 {
		t.Errorf("region 为 nil 时应原样返回: %+v", same[0].Position)
	}
}

func TestShiftMatch(t *testing.T) {
	result := match.Match{
		Candidate: match.Candidate{Position: match.Point{X: 10, Y: 20}},
		ContextMatches: []match.Candidate{
			{Position: match.Point{X: 1, Y: 2}},
			{Position: match.Point{X: 3, Y: 4}},
		},
	}

	shifted := shiftMatch(result, &auto.Region{X: 100, Y: 200, Width: 50, Height: 50})
	if shifted.Candidate.Position.X != 110 || shifted.Candidate.Position.Y != 220 {
		t.Errorf("主候选平移后坐标 = %+v", shifted.Candidate.Position)
	}
	// 上下文候选与主候选一并平移
	if shifted.ContextMatches[0].Position.X != 101 || shifted.ContextMatches[0].Position.Y != 202 {
		t.Errorf("上下文候选平移后坐标 = %+v", shifted.ContextMatches[0].Position)
	}
	if shifted.ContextMatches[1].Position.X != 103 || shifted.ContextMatches[1].Position.Y != 204 {
		t.Errorf("上下文候选平移后坐标 = %+v", shifted.ContextMatches[1].Position)
	}

	same := shiftMatch(result, nil)
	if same.Candidate.Position.X != 10 || same.ContextMatches[0].Position.X != 1 {
		t.Errorf("region 为 nil 时应原样返回: %+v", same)
	}
}

func TestLocatorDedupe(t *testing.T) {
	l := NewLocator(config.DefaultSettings())

	candidates := []match.Candidate{
		{Position: match.Point{X: 10, Y: 10}},
		{Position: match.Point{X: 12, Y: 11}},
		{Position: match.Point{X: 100, Y: 100}},
	}

	o := auto.ApplyOptions(auto.WithMinMatchDistance(10))
	got := l.dedupe(candidates, o)
	if len(got) != 2 {
		t.Fatalf("去重后候选数 = %d, want 2", len(got))
	}
	if got[0].Position.X != 10 || got[1].Position.X != 100 {
		t.Errorf("去重应保留先出现的候选: %+v", got)
	}

	// 去重距离为 0 时不去重
	o = auto.ApplyOptions(auto.WithMinMatchDistance(0))
	if got := l.dedupe(candidates, o); len(got) != 3 {
		t.Errorf("禁用去重时候选数 = %d, want 3", len(got))
	}
}

func TestLocatorFindTextWithoutRecognizer(t *testing.T) {
	l := NewLocator(config.DefaultSettings())

	if _, err := l.FindText(textQuery("确认")); err == nil {
		t.Error("未配置 OCR 时 FindText 应返回错误")
	}
	if _, _, err := l.FindTextWithContexts(textQuery("确认"), nil); err == nil {
		t.Error("未配置 OCR 时 FindTextWithContexts 应返回错误")
	}
}
