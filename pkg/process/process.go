// Package process 提供进程管理功能
package process

import (
	"fmt"
	"strings"

	"github.com/go-vgo/robotgo"
	"github.com/shirou/gopsutil/v4/process"
)

// Info 进程信息
type Info struct {
	PID  int    `json:"pid"`
	Name string `json:"name"`
	Path string `json:"path"`
}

// List 获取所有进程
func List() ([]Info, error) {
	pids, err := process.Pids()
	if err != nil {
		return nil, fmt.Errorf("获取进程列表失败: %w", err)
	}

	var processes []Info
	for _, pid := range pids {
		proc, err := process.NewProcess(pid)
		if err != nil {
			continue
		}

		name, _ := proc.Name()
		exe, _ := proc.Exe()
		processes = append(processes, Info{PID: int(pid), Name: name, Path: exe})
	}
	return processes, nil
}

// Find 按名称查找进程（不区分大小写，支持部分匹配）
func Find(name string) ([]Info, error) {
	pids, err := process.Pids()
	if err != nil {
		return nil, fmt.Errorf("获取进程列表失败: %w", err)
	}

	name = strings.ToLower(name)
	var matches []Info
	for _, pid := range pids {
		proc, err := process.NewProcess(pid)
		if err != nil {
			continue
		}

		procName, err := proc.Name()
		if err != nil {
			continue
		}
		if strings.Contains(strings.ToLower(procName), name) {
			exe, _ := proc.Exe()
			matches = append(matches, Info{PID: int(pid), Name: procName, Path: exe})
		}
	}
	return matches, nil
}

// IsRunning 检查进程是否正在运行
func IsRunning(pid int) bool {
	proc, err := process.NewProcess(int32(pid))
	if err != nil {
		return false
	}
	running, err := proc.IsRunning()
	if err != nil {
		return false
	}
	return running
}

// Kill 终止进程
func Kill(pid int) error {
	return robotgo.Kill(pid)
}

// KillByName 终止所有名称匹配的进程，返回终止的 PID
func KillByName(name string) ([]int, error) {
	matches, err := Find(name)
	if err != nil {
		return nil, err
	}
	if len(matches) == 0 {
		return nil, fmt.Errorf("未找到进程: %s", name)
	}

	var killed []int
	for _, info := range matches {
		if err := robotgo.Kill(info.PID); err != nil {
			continue
		}
		killed = append(killed, info.PID)
	}
	if len(killed) == 0 {
		return nil, fmt.Errorf("终止进程失败: %s", name)
	}
	return killed, nil
}
