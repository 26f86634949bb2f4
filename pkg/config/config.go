// Package config 提供自动化框架的平台配置与持久化
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"sync"
)

// Settings 自动化运行配置
// 依据运行平台提供缩放因子、匹配阈值等默认值
type Settings struct {
	// ScaleFactor 截图缩放因子 (Windows 为 1，macOS/Linux HiDPI 为 2)
	ScaleFactor float64 `json:"scale_factor"`
	// Threshold 图像匹配阈值 (0-1)
	Threshold float64 `json:"threshold"`
	// Debug 调试模式，启用后执行错误立即抛出而非进入检查点
	Debug bool `json:"debug"`
	// MinMatchDistance 相邻匹配去重的最小距离（像素）
	MinMatchDistance float64 `json:"min_match_distance"`
	// LineEnding 平台行结束符
	LineEnding string `json:"line_ending"`
	// Encoding 平台字符编码
	Encoding string `json:"encoding"`
	// LogLevel 日志级别
	LogLevel string `json:"log_level"`
	// LogFile 日志文件路径，为空表示仅控制台输出
	LogFile string `json:"log_file"`
}

// DefaultSettings 返回当前平台的默认配置
func DefaultSettings() *Settings {
	s := &Settings{
		ScaleFactor:      2,
		Threshold:        0.8,
		Debug:            false,
		MinMatchDistance: 10,
		LineEnding:       "\n",
		Encoding:         "utf-8",
		LogLevel:         "INFO",
	}

	if runtime.GOOS == "windows" {
		s.ScaleFactor = 1
		s.LineEnding = "\r\n"
		s.Encoding = "GBK"
	}

	return s
}

// SetScaleFactor 设置缩放因子
func (s *Settings) SetScaleFactor(factor float64) {
	if factor > 0 {
		s.ScaleFactor = factor
	}
}

// SetThreshold 设置匹配阈值
func (s *Settings) SetThreshold(threshold float64) {
	if threshold > 0 && threshold <= 1 {
		s.Threshold = threshold
	}
}

// SetDebug 启用或关闭调试模式
func (s *Settings) SetDebug(enable bool) {
	s.Debug = enable
}

// Manager 配置管理器，负责配置文件的读写
type Manager struct {
	configDir  string
	configFile string
	mu         sync.RWMutex
}

// NewManager 创建配置管理器，默认使用用户主目录
func NewManager() *Manager {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		homeDir = "."
	}

	configDir := filepath.Join(homeDir, ".screenhelper")
	return &Manager{
		configDir:  configDir,
		configFile: filepath.Join(configDir, "config.json"),
	}
}

// NewManagerWithDir 使用指定目录创建配置管理器
func NewManagerWithDir(configDir string) *Manager {
	return &Manager{
		configDir:  configDir,
		configFile: filepath.Join(configDir, "config.json"),
	}
}

// ensureDir 确保配置目录存在
func (m *Manager) ensureDir() error {
	return os.MkdirAll(m.configDir, 0755)
}

// Load 加载配置，文件不存在时返回平台默认配置
func (m *Manager) Load() (*Settings, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if _, err := os.Stat(m.configFile); os.IsNotExist(err) {
		return DefaultSettings(), nil
	}

	data, err := os.ReadFile(m.configFile)
	if err != nil {
		return DefaultSettings(), fmt.Errorf("读取配置文件失败: %w", err)
	}

	settings := DefaultSettings()
	if err := json.Unmarshal(data, settings); err != nil {
		return DefaultSettings(), fmt.Errorf("解析配置文件失败: %w", err)
	}

	return settings, nil
}

// Save 保存配置
func (m *Manager) Save(settings *Settings) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.ensureDir(); err != nil {
		return fmt.Errorf("创建配置目录失败: %w", err)
	}

	data, err := json.MarshalIndent(settings, "", "  ")
	if err != nil {
		return fmt.Errorf("序列化配置失败: %w", err)
	}

	if err := os.WriteFile(m.configFile, data, 0600); err != nil {
		return fmt.Errorf("写入配置文件失败: %w", err)
	}

	return nil
}

// Clear 清除配置文件
func (m *Manager) Clear() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, err := os.Stat(m.configFile); os.IsNotExist(err) {
		return nil
	}

	return os.Remove(m.configFile)
}

// Exists 检查配置文件是否存在
func (m *Manager) Exists() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()

	_, err := os.Stat(m.configFile)
	return err == nil
}

// GetConfigDir 获取配置目录
func (m *Manager) GetConfigDir() string {
	return m.configDir
}

// GetConfigFile 获取配置文件路径
func (m *Manager) GetConfigFile() string {
	return m.configFile
}
