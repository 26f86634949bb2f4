// Package auto 提供屏幕元素定位与自动化编排
// 组合 vision 候选生产、match 解析与 robotgo 输入实现高级操作
package auto

import (
	"time"

	"github.com/go-vgo/robotgo"
)

// Sleep 休眠
func Sleep(d time.Duration) {
	time.Sleep(d)
}

// MilliSleep 毫秒休眠
func MilliSleep(ms int) {
	robotgo.MilliSleep(ms)
}

// Point 表示二维坐标点
type Point struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// Region 表示矩形区域
type Region struct {
	X      int `json:"x"`
	Y      int `json:"y"`
	Width  int `json:"width"`
	Height int `json:"height"`
}
