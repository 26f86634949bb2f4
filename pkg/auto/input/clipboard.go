package input

import (
	"fmt"

	"github.com/go-vgo/robotgo"
)

// CopyToClipboard 将文字写入系统剪贴板
func CopyToClipboard(text string) error {
	if err := robotgo.WriteAll(text); err != nil {
		return fmt.Errorf("写入剪贴板失败: %w", err)
	}
	return nil
}

// ReadClipboard 读取系统剪贴板内容
func ReadClipboard() (string, error) {
	text, err := robotgo.ReadAll()
	if err != nil {
		return "", fmt.Errorf("读取剪贴板失败: %w", err)
	}
	return text, nil
}
