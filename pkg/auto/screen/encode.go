package screen

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"

	"golang.org/x/image/draw"
)

// ImageToBase64 将图像转换为 Base64 数据 URL
// format: "png" 或 "jpeg"，默认 "jpeg"；quality: JPEG 质量 1-100，默认 80
func ImageToBase64(img image.Image, format string, quality int) (string, error) {
	if img == nil {
		return "", fmt.Errorf("图像为空")
	}

	if format == "" {
		format = "jpeg"
	}
	if quality <= 0 || quality > 100 {
		quality = 80
	}

	var buf bytes.Buffer
	var mimeType string

	switch format {
	case "png":
		if err := png.Encode(&buf, img); err != nil {
			return "", fmt.Errorf("PNG 编码失败: %w", err)
		}
		mimeType = "image/png"
	case "jpeg", "jpg":
		if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: quality}); err != nil {
			return "", fmt.Errorf("JPEG 编码失败: %w", err)
		}
		mimeType = "image/jpeg"
	default:
		return "", fmt.Errorf("不支持的图像格式: %s", format)
	}

	return fmt.Sprintf("data:%s;base64,%s",
		mimeType, base64.StdEncoding.EncodeToString(buf.Bytes())), nil
}

// CaptureToBase64 截取屏幕并转换为 Base64
func CaptureToBase64(quality int) (string, error) {
	img, err := Capture()
	if err != nil {
		return "", err
	}
	return ImageToBase64(img, "jpeg", quality)
}

// Thumbnail 等比缩放图像到指定最大宽度
// 宽度已不大于 maxWidth 时原样返回
func Thumbnail(img image.Image, maxWidth int) image.Image {
	bounds := img.Bounds()
	if maxWidth <= 0 || bounds.Dx() <= maxWidth {
		return img
	}

	height := bounds.Dy() * maxWidth / bounds.Dx()
	if height < 1 {
		height = 1
	}

	dst := image.NewRGBA(image.Rect(0, 0, maxWidth, height))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, bounds, draw.Over, nil)
	return dst
}
