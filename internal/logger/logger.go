// Package logger 提供统一的日志工具
package logger

import (
	"fmt"
	"io"
	"log"
	"os"
	"sync"
	"time"
)

// Level 日志级别
type Level int

const (
	DEBUG Level = iota
	INFO
	WARN
	ERROR
)

func (l Level) String() string {
	switch l {
	case DEBUG:
		return "DEBUG"
	case INFO:
		return "INFO"
	case WARN:
		return "WARN"
	case ERROR:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

// ParseLevel 解析日志级别字符串
func ParseLevel(s string) Level {
	switch s {
	case "DEBUG", "debug":
		return DEBUG
	case "INFO", "info":
		return INFO
	case "WARN", "warn", "WARNING", "warning":
		return WARN
	case "ERROR", "error":
		return ERROR
	default:
		return INFO
	}
}

// Config 日志配置，在构造时一次性给定
type Config struct {
	// Level 最低输出级别
	Level Level
	// Enabled 是否启用日志
	Enabled bool
	// Console 是否输出到控制台
	Console bool
	// FilePath 日志文件路径，为空表示不写文件
	FilePath string
}

// DefaultConfig 默认日志配置
func DefaultConfig() Config {
	return Config{
		Level:   INFO,
		Enabled: true,
		Console: true,
	}
}

// Logger 日志记录器
// 所有配置在 New 时确定，不支持运行期的隐式重配置
type Logger struct {
	mu      sync.Mutex
	cfg     Config
	logger  *log.Logger
	fileOut *os.File
}

// New 根据配置创建 Logger 实例
func New(cfg Config) (*Logger, error) {
	l := &Logger{
		cfg:    cfg,
		logger: log.New(io.Discard, "", 0),
	}

	var writers []io.Writer
	if cfg.Console {
		writers = append(writers, os.Stdout)
	}
	if cfg.FilePath != "" {
		f, err := os.OpenFile(cfg.FilePath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			return nil, fmt.Errorf("无法打开日志文件: %w", err)
		}
		l.fileOut = f
		writers = append(writers, f)
	}

	switch len(writers) {
	case 0:
	case 1:
		l.logger.SetOutput(writers[0])
	default:
		l.logger.SetOutput(io.MultiWriter(writers...))
	}

	return l, nil
}

// Discard 创建不输出任何内容的 Logger，用于测试
func Discard() *Logger {
	return &Logger{
		cfg:    Config{Enabled: false},
		logger: log.New(io.Discard, "", 0),
	}
}

// log 内部日志方法
func (l *Logger) log(level Level, format string, args ...interface{}) {
	if l == nil || !l.cfg.Enabled || level < l.cfg.Level {
		return
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	timestamp := time.Now().Format("15:04:05")
	msg := fmt.Sprintf(format, args...)
	l.logger.Printf("%s | %-5s | %s", timestamp, level.String(), msg)
}

// Debug 输出 DEBUG 级别日志
func (l *Logger) Debug(format string, args ...interface{}) {
	l.log(DEBUG, format, args...)
}

// Info 输出 INFO 级别日志
func (l *Logger) Info(format string, args ...interface{}) {
	l.log(INFO, format, args...)
}

// Warn 输出 WARN 级别日志
func (l *Logger) Warn(format string, args ...interface{}) {
	l.log(WARN, format, args...)
}

// Error 输出 ERROR 级别日志
func (l *Logger) Error(format string, args ...interface{}) {
	l.log(ERROR, format, args...)
}

// LogEvent 记录带分类的事件日志
func (l *Logger) LogEvent(category string, ok bool, elapsedMs float64, detail string) {
	status := "OK"
	if !ok {
		status = "NG"
	}

	if ok {
		l.Info("%-4s | %s | %6.1fms | %s", category, status, elapsedMs, detail)
	} else {
		l.Error("%-4s | %s | %6.1fms | %s", category, status, elapsedMs, detail)
	}
}

// Close 关闭 logger，释放资源
func (l *Logger) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.fileOut != nil {
		err := l.fileOut.Close()
		l.fileOut = nil
		return err
	}
	return nil
}
