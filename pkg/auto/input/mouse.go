// Package input 提供鼠标、键盘和剪贴板操作
package input

import (
	"fmt"
	"time"

	"github.com/go-vgo/robotgo"

	"github.com/screenhelper/screenhelper/pkg/auto"
)

// MoveTo 移动鼠标到指定位置
func MoveTo(x, y int) {
	inputX, inputY := auto.NormalizePointForInput(x, y)
	robotgo.Move(inputX, inputY)
}

// MoveSmooth 平滑移动鼠标
func MoveSmooth(x, y int) {
	inputX, inputY := auto.NormalizePointForInput(x, y)
	robotgo.MoveSmooth(inputX, inputY)
}

// Click 点击
func Click(button ...string) {
	btn := "left"
	if len(button) > 0 {
		btn = button[0]
	}
	robotgo.Click(btn, false)
}

// DoubleClick 双击
func DoubleClick() {
	robotgo.Click("left", true)
}

// RightClick 右键点击
func RightClick() {
	robotgo.Click("right", false)
}

// ClickAt 在指定位置点击（根据 Options 决定点击方式）
func ClickAt(x, y int, o *auto.Options) error {
	MoveTo(x, y)
	time.Sleep(50 * time.Millisecond) // 确保鼠标到位

	switch {
	case o.RightClick:
		robotgo.Click("right", false)
	case o.DoubleClick:
		robotgo.Click("left", true)
	default:
		robotgo.Click("left", false)
	}
	return nil
}

// Drag 拖拽到指定位置
func Drag(x, y int) {
	inputX, inputY := auto.NormalizePointForInput(x, y)
	robotgo.DragSmooth(inputX, inputY)
}

// ScrollUp 向上滚动
func ScrollUp(lines int) {
	robotgo.ScrollDir(lines, "up")
}

// ScrollDown 向下滚动
func ScrollDown(lines int) {
	robotgo.ScrollDir(lines, "down")
}

// MousePosition 获取鼠标位置（截图坐标系）
func MousePosition() (x, y int) {
	inputX, inputY := robotgo.Location()
	return auto.NormalizePointForScreen(inputX, inputY)
}

// 鼠标操作指令名
const (
	MouseMove        = "move"
	MouseClick       = "click"
	MouseDoubleClick = "double_click"
	MouseRightClick  = "right_click"
	MouseDrag        = "drag"
	MouseScrollUp    = "scroll_up"
	MouseScrollDown  = "scroll_down"
)

// PerformMouse 按指令名执行鼠标操作
// amount 仅滚动操作使用（行数），drag 以当前位置为起点
func PerformMouse(action string, x, y, amount int) error {
	switch action {
	case MouseMove:
		MoveTo(x, y)
	case MouseClick:
		MoveTo(x, y)
		time.Sleep(50 * time.Millisecond)
		Click()
	case MouseDoubleClick:
		MoveTo(x, y)
		time.Sleep(50 * time.Millisecond)
		DoubleClick()
	case MouseRightClick:
		MoveTo(x, y)
		time.Sleep(50 * time.Millisecond)
		RightClick()
	case MouseDrag:
		Drag(x, y)
	case MouseScrollUp:
		ScrollUp(amount)
	case MouseScrollDown:
		ScrollDown(amount)
	default:
		return fmt.Errorf("未知鼠标操作: %s", action)
	}
	return nil
}
