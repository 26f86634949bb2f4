// Package window 提供窗口管理功能
package window

import (
	"fmt"
	"image"
	"strings"
	"time"

	"github.com/go-vgo/robotgo"

	"github.com/screenhelper/screenhelper/pkg/auto"
	"github.com/screenhelper/screenhelper/pkg/auto/screen"
)

// Info 窗口信息
type Info struct {
	PID       int         `json:"pid"`
	Title     string      `json:"title"`
	OwnerName string      `json:"owner_name"`
	Bounds    auto.Region `json:"bounds"`
}

// List 获取窗口列表，filter 按标题或进程名部分匹配（不区分大小写）
func List(filter ...string) ([]Info, error) {
	pids, err := robotgo.Pids()
	if err != nil {
		return nil, fmt.Errorf("获取进程列表失败: %w", err)
	}

	filterStr := ""
	if len(filter) > 0 {
		filterStr = strings.ToLower(filter[0])
	}

	var windows []Info
	for _, pid := range pids {
		title := robotgo.GetTitle(pid)
		if title == "" {
			continue
		}

		name, _ := robotgo.FindName(pid)
		if filterStr != "" {
			if !strings.Contains(strings.ToLower(title), filterStr) &&
				!strings.Contains(strings.ToLower(name), filterStr) {
				continue
			}
		}

		x, y, w, h := robotgo.GetBounds(pid)
		x, y, w, h = auto.NormalizeRegionForScreen(x, y, w, h)
		windows = append(windows, Info{
			PID:       pid,
			Title:     title,
			OwnerName: name,
			Bounds:    auto.Region{X: x, Y: y, Width: w, Height: h},
		})
	}
	return windows, nil
}

// FindByTitle 按标题查找窗口（部分匹配）
func FindByTitle(title string) (*Info, error) {
	windows, err := List(title)
	if err != nil {
		return nil, err
	}
	if len(windows) == 0 {
		return nil, fmt.Errorf("未找到标题包含 %q 的窗口", title)
	}
	return &windows[0], nil
}

// Activate 将窗口置于前台
func Activate(pid int) error {
	return robotgo.ActivePid(pid)
}

// ActivateByTitle 按标题激活窗口
func ActivateByTitle(title string) error {
	info, err := FindByTitle(title)
	if err != nil {
		return err
	}
	return Activate(info.PID)
}

// Minimize 最小化窗口
func Minimize(pid int) {
	robotgo.MinWindow(pid)
}

// Maximize 最大化窗口
func Maximize(pid int) {
	robotgo.MaxWindow(pid)
}

// Close 关闭窗口
func Close(pid int) {
	robotgo.CloseWindow(pid)
}

// ActiveTitle 获取当前活动窗口标题
func ActiveTitle() string {
	return robotgo.GetTitle()
}

// Capture 截取窗口截图
func Capture(pid int) (image.Image, error) {
	x, y, w, h := robotgo.GetBounds(pid)
	x, y, w, h = auto.NormalizeRegionForScreen(x, y, w, h)
	if w == 0 || h == 0 {
		return nil, fmt.Errorf("无法获取窗口边界: PID=%d", pid)
	}
	return screen.CaptureRegion(x, y, w, h)
}

// WaitFor 等待窗口出现
func WaitFor(title string, opts ...auto.Option) (*Info, error) {
	o := auto.ApplyOptions(opts...)

	startTime := time.Now()
	for {
		info, err := FindByTitle(title)
		if err == nil && info != nil {
			return info, nil
		}

		if o.Timeout == 0 || time.Since(startTime) > o.Timeout {
			return nil, fmt.Errorf("等待窗口超时: %s", title)
		}
		auto.Sleep(auto.DefaultPollInterval)
	}
}
