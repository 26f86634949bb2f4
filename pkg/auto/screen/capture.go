// Package screen 提供屏幕截图、编码与留档功能
package screen

import (
	"fmt"
	"image"

	"github.com/go-vgo/robotgo"

	"github.com/screenhelper/screenhelper/pkg/auto"
)

// Capture 截取全屏
func Capture() (image.Image, error) {
	img, err := robotgo.CaptureImg()
	if err != nil {
		return nil, fmt.Errorf("截屏失败: %w", err)
	}
	return img, nil
}

// CaptureRegion 截取屏幕区域
func CaptureRegion(x, y, width, height int) (image.Image, error) {
	inputX, inputY, inputW, inputH := auto.NormalizeRegionForInput(x, y, width, height)
	img, err := robotgo.CaptureImg(inputX, inputY, inputW, inputH)
	if err != nil {
		return nil, fmt.Errorf("截取区域失败: %w", err)
	}
	return img, nil
}

// CaptureOptions 按 Options 的 Region 截取屏幕
// Region 为 nil 时截取全屏
func CaptureOptions(o *auto.Options) (image.Image, error) {
	if o.Region == nil {
		return Capture()
	}
	return CaptureRegion(o.Region.X, o.Region.Y, o.Region.Width, o.Region.Height)
}

// Size 获取屏幕尺寸（物理像素，与截图分辨率一致）
func Size() (width, height int) {
	return auto.PhysicalScreenSize()
}

// DisplayCount 获取显示器数量
func DisplayCount() int {
	return robotgo.DisplaysNum()
}
