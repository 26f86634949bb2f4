package screen

import (
	"image"
	"strings"
	"testing"
)

func TestImageToBase64(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 4, 4))

	tests := []struct {
		name       string
		format     string
		wantPrefix string
		wantErr    bool
	}{
		{"default jpeg", "", "data:image/jpeg;base64,", false},
		{"png", "png", "data:image/png;base64,", false},
		{"jpg alias", "jpg", "data:image/jpeg;base64,", false},
		{"unknown format", "bmp", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ImageToBase64(img, tt.format, 0)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ImageToBase64() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err == nil && !strings.HasPrefix(got, tt.wantPrefix) {
				t.Errorf("前缀错误: %.40s", got)
			}
		})
	}

	if _, err := ImageToBase64(nil, "png", 0); err == nil {
		t.Error("空图像应返回错误")
	}
}

func TestThumbnail(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 200, 100))

	small := Thumbnail(img, 50)
	if small.Bounds().Dx() != 50 || small.Bounds().Dy() != 25 {
		t.Errorf("缩放尺寸 = %v, want 50x25", small.Bounds())
	}

	// 已小于目标宽度时原样返回
	same := Thumbnail(img, 400)
	if same != image.Image(img) {
		t.Error("不需要缩放时应返回原图")
	}
	if got := Thumbnail(img, 0); got != image.Image(img) {
		t.Error("maxWidth <= 0 时应返回原图")
	}
}
