package config

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"
)

func TestDefaultSettings(t *testing.T) {
	s := DefaultSettings()

	if s.Threshold != 0.8 {
		t.Errorf("Threshold = %v, want 0.8", s.Threshold)
	}
	if s.Debug {
		t.Error("Debug 默认应为 false")
	}
	if s.MinMatchDistance != 10 {
		t.Errorf("MinMatchDistance = %v, want 10", s.MinMatchDistance)
	}

	if runtime.GOOS == "windows" {
		if s.ScaleFactor != 1 || s.LineEnding != "\r\n" || s.Encoding != "GBK" {
			t.Errorf("Windows 默认配置错误: %+v", s)
		}
	} else {
		if s.ScaleFactor != 2 || s.LineEnding != "\n" || s.Encoding != "utf-8" {
			t.Errorf("非 Windows 默认配置错误: %+v", s)
		}
	}
}

func TestSettingsSetters(t *testing.T) {
	s := DefaultSettings()

	s.SetScaleFactor(1.5)
	if s.ScaleFactor != 1.5 {
		t.Errorf("SetScaleFactor: got %v", s.ScaleFactor)
	}

	s.SetScaleFactor(0) // 无效值应被忽略
	if s.ScaleFactor != 1.5 {
		t.Errorf("SetScaleFactor(0) 不应修改配置: got %v", s.ScaleFactor)
	}

	s.SetThreshold(0.95)
	if s.Threshold != 0.95 {
		t.Errorf("SetThreshold: got %v", s.Threshold)
	}

	s.SetThreshold(1.5) // 超出范围应被忽略
	if s.Threshold != 0.95 {
		t.Errorf("SetThreshold(1.5) 不应修改配置: got %v", s.Threshold)
	}

	s.SetDebug(true)
	if !s.Debug {
		t.Error("SetDebug(true) 未生效")
	}
}

func TestManagerSaveLoad(t *testing.T) {
	dir := t.TempDir()
	m := NewManagerWithDir(dir)

	// 文件不存在时返回默认配置
	loaded, err := m.Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if loaded.Threshold != 0.8 {
		t.Errorf("默认 Threshold = %v, want 0.8", loaded.Threshold)
	}

	s := DefaultSettings()
	s.Threshold = 0.9
	s.Debug = true
	s.LogFile = "run.log"

	if err := m.Save(s); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	if !m.Exists() {
		t.Fatal("Save 后配置文件应存在")
	}

	loaded, err = m.Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if loaded.Threshold != 0.9 || !loaded.Debug || loaded.LogFile != "run.log" {
		t.Errorf("Load() = %+v, 与保存内容不一致", loaded)
	}
}

func TestManagerLoadCorruptFile(t *testing.T) {
	dir := t.TempDir()
	m := NewManagerWithDir(dir)

	if err := os.WriteFile(filepath.Join(dir, "config.json"), []byte("{not json"), 0600); err != nil {
		t.Fatal(err)
	}

	loaded, err := m.Load()
	if err == nil {
		t.Error("损坏的配置文件应返回错误")
	}
	if loaded == nil || loaded.Threshold != 0.8 {
		t.Error("解析失败时应回退到默认配置")
	}
}

func TestManagerClear(t *testing.T) {
	dir := t.TempDir()
	m := NewManagerWithDir(dir)

	// 文件不存在时 Clear 不报错
	if err := m.Clear(); err != nil {
		t.Errorf("Clear() 空目录 error = %v", err)
	}

	if err := m.Save(DefaultSettings()); err != nil {
		t.Fatal(err)
	}
	if err := m.Clear(); err != nil {
		t.Errorf("Clear() error = %v", err)
	}
	if m.Exists() {
		t.Error("Clear 后配置文件不应存在")
	}
}
