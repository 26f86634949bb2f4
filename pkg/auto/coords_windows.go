//go:build windows

package auto

import (
	"math"
	"sync"

	"github.com/go-vgo/robotgo"
)

// Windows 上截图始终是物理像素，而 robotgo 的输入坐标空间
// 取决于进程的 DPI 感知设置。初始化时对比截图尺寸与
// robotgo.GetScreenSize() 自动探测两者之间的缩放比：
//
//	NormalizePointForInput:  截图坐标 / coordScale = robotgo 坐标
//	NormalizePointForScreen: robotgo 坐标 * coordScale = 截图坐标
var (
	coordMu        sync.Mutex
	coordScaleX    float64
	coordScaleY    float64
	coordsDetected bool
)

func coordinateScale() (float64, float64) {
	coordMu.Lock()
	defer coordMu.Unlock()

	if coordsDetected {
		return coordScaleX, coordScaleY
	}

	coordScaleX, coordScaleY = detectCoordinateScale()
	coordsDetected = true
	return coordScaleX, coordScaleY
}

func detectCoordinateScale() (float64, float64) {
	reportedW, reportedH := robotgo.GetScreenSize()
	if reportedW <= 0 || reportedH <= 0 {
		return 1.0, 1.0
	}

	img, err := robotgo.CaptureImg()
	if err != nil || img == nil {
		return 1.0, 1.0
	}

	captureW := img.Bounds().Dx()
	captureH := img.Bounds().Dy()
	if captureW <= 0 || captureH <= 0 {
		return 1.0, 1.0
	}

	return clampScale(float64(captureW) / float64(reportedW)),
		clampScale(float64(captureH) / float64(reportedH))
}

func clampScale(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) || v < 0.5 || v > 4.0 {
		return 1.0
	}
	if math.Abs(v-1.0) < 0.05 {
		return 1.0
	}
	return v
}

// ResetCoordinateScaleCache 重置坐标缩放缓存
// 显示器配置变化后调用
func ResetCoordinateScaleCache() {
	coordMu.Lock()
	defer coordMu.Unlock()
	coordScaleX = 0
	coordScaleY = 0
	coordsDetected = false
}

// NormalizePointForInput 将截图物理坐标转换为 robotgo 输入坐标
func NormalizePointForInput(x, y int) (int, int) {
	scaleX, scaleY := coordinateScale()
	return ScaleInt(x, 1.0/scaleX), ScaleInt(y, 1.0/scaleY)
}

// NormalizePointForScreen 将 robotgo 坐标转换为截图物理坐标
func NormalizePointForScreen(x, y int) (int, int) {
	scaleX, scaleY := coordinateScale()
	return ScaleInt(x, scaleX), ScaleInt(y, scaleY)
}

// NormalizeRegionForInput 将截图物理区域转换为 robotgo 输入区域
func NormalizeRegionForInput(x, y, width, height int) (int, int, int, int) {
	scaleX, scaleY := coordinateScale()
	nx := ScaleInt(x, 1.0/scaleX)
	ny := ScaleInt(y, 1.0/scaleY)
	nw := ScaleInt(width, 1.0/scaleX)
	nh := ScaleInt(height, 1.0/scaleY)
	if width > 0 && nw < 1 {
		nw = 1
	}
	if height > 0 && nh < 1 {
		nh = 1
	}
	return nx, ny, nw, nh
}

// NormalizeRegionForScreen 将 robotgo 区域转换为截图物理区域
func NormalizeRegionForScreen(x, y, width, height int) (int, int, int, int) {
	scaleX, scaleY := coordinateScale()
	return ScaleInt(x, scaleX), ScaleInt(y, scaleY),
		ScaleInt(width, scaleX), ScaleInt(height, scaleY)
}

// PhysicalScreenSize 物理屏幕尺寸（与截图分辨率一致）
func PhysicalScreenSize() (width, height int) {
	w, h := robotgo.GetScreenSize()
	scaleX, scaleY := coordinateScale()
	return ScaleInt(w, scaleX), ScaleInt(h, scaleY)
}

// ScaleInt 缩放整数值
func ScaleInt(value int, factor float64) int {
	if factor <= 0 {
		return value
	}
	return int(math.Round(float64(value) * factor))
}
