package logger

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input string
		want  Level
	}{
		{"DEBUG", DEBUG},
		{"debug", DEBUG},
		{"INFO", INFO},
		{"WARN", WARN},
		{"warning", WARN},
		{"ERROR", ERROR},
		{"unknown", INFO},
		{"", INFO},
	}

	for _, tt := range tests {
		if got := ParseLevel(tt.input); got != tt.want {
			t.Errorf("ParseLevel(%q) = %v, want %v", tt.input, got, tt.want)
		}
	}
}

func TestLoggerFileOutput(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.log")

	l, err := New(Config{Level: DEBUG, Enabled: true, Console: false, FilePath: path})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	l.Info("hello %s", "world")
	l.Debug("detail %d", 42)

	if err := l.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("读取日志文件失败: %v", err)
	}

	content := string(data)
	if !strings.Contains(content, "hello world") {
		t.Errorf("日志文件缺少 INFO 内容: %q", content)
	}
	if !strings.Contains(content, "detail 42") {
		t.Errorf("日志文件缺少 DEBUG 内容: %q", content)
	}
}

func TestLoggerLevelFilter(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.log")

	l, err := New(Config{Level: WARN, Enabled: true, Console: false, FilePath: path})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	l.Info("should be filtered")
	l.Error("should appear")
	l.Close()

	data, _ := os.ReadFile(path)
	content := string(data)

	if strings.Contains(content, "should be filtered") {
		t.Error("INFO 日志未被级别过滤")
	}
	if !strings.Contains(content, "should appear") {
		t.Error("ERROR 日志丢失")
	}
}

func TestDiscardLoggerIsSafe(t *testing.T) {
	l := Discard()
	l.Info("ignored")
	l.LogEvent("CV", true, 1.5, "ignored")

	var nilLogger *Logger
	nilLogger.Info("nil receiver should not panic")
}
