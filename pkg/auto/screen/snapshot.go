package screen

import (
	"fmt"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"time"
)

// SaveSnapshot 将图像以 PNG 格式保存到留档目录
// 文件名为时间戳，返回完整路径
func SaveSnapshot(img image.Image, dir string) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("创建留档目录失败: %w", err)
	}

	path := filepath.Join(dir, fmt.Sprintf("snapshot_%s.png", time.Now().Format("20060102_150405.000")))
	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("创建留档文件失败: %w", err)
	}
	defer f.Close()

	if err := png.Encode(f, img); err != nil {
		return "", fmt.Errorf("PNG 编码失败: %w", err)
	}
	return path, nil
}

// CaptureSnapshot 截取全屏并留档
func CaptureSnapshot(dir string) (string, error) {
	img, err := Capture()
	if err != nil {
		return "", err
	}
	return SaveSnapshot(img, dir)
}
