// Package ocr 提供 OCR 文字候选生产
package ocr

import (
	"os"
	"path/filepath"
	"runtime"
)

// Token 一段识别出的文字及其位置
type Token struct {
	// Text 识别的文字内容
	Text string `json:"text"`
	// Confidence 识别置信度 (0-1)
	Confidence float64 `json:"confidence"`
	// Box 边界框 {x1, y1, x2, y2}
	Box [4]int `json:"box"`
}

// Center 返回边界框中心点坐标
func (t Token) Center() (int, int) {
	return (t.Box[0] + t.Box[2]) / 2, (t.Box[1] + t.Box[3]) / 2
}

// Config OCR 引擎配置
type Config struct {
	// OnnxRuntimeLibPath ONNX Runtime 动态库路径
	OnnxRuntimeLibPath string
	// DetModelPath 检测模型路径
	DetModelPath string
	// RecModelPath 识别模型路径
	RecModelPath string
	// DictPath 字典文件路径
	DictPath string
}

// DefaultConfig 默认配置，按平台惯例查找模型文件
func DefaultConfig() Config {
	return Config{
		OnnxRuntimeLibPath: defaultOnnxRuntimePath(),
		DetModelPath:       defaultModelPath("det.onnx"),
		RecModelPath:       defaultModelPath("rec.onnx"),
		DictPath:           defaultModelPath("dict.txt"),
	}
}

// Available 检查模型文件是否齐备
func (c Config) Available() bool {
	return fileExists(c.OnnxRuntimeLibPath) &&
		fileExists(c.DetModelPath) &&
		fileExists(c.RecModelPath) &&
		fileExists(c.DictPath)
}

// executableDir 可执行文件所在目录
func executableDir() string {
	execPath, err := os.Executable()
	if err != nil {
		return "."
	}
	execPath, err = filepath.EvalSymlinks(execPath)
	if err != nil {
		return "."
	}
	return filepath.Dir(execPath)
}

// defaultOnnxRuntimePath 按操作系统查找 ONNX Runtime 库
func defaultOnnxRuntimePath() string {
	execDir := executableDir()

	var paths []string
	switch runtime.GOOS {
	case "darwin":
		paths = []string{
			filepath.Join(execDir, "libonnxruntime.dylib"),
			filepath.Join("models", "lib", "onnxruntime_arm64.dylib"),
			filepath.Join("models", "lib", "onnxruntime_amd64.dylib"),
		}
	case "windows":
		paths = []string{
			filepath.Join(execDir, "onnxruntime.dll"),
			filepath.Join("models", "lib", "onnxruntime.dll"),
		}
	default:
		paths = []string{
			filepath.Join(execDir, "libonnxruntime.so"),
			filepath.Join("models", "lib", "onnxruntime_arm64.so"),
			filepath.Join("models", "lib", "onnxruntime_amd64.so"),
		}
	}

	for _, p := range paths {
		if fileExists(p) {
			return p
		}
	}
	return paths[len(paths)-1]
}

// defaultModelPath 查找模型文件
func defaultModelPath(filename string) string {
	paths := []string{
		filepath.Join(executableDir(), "models", "paddle_weights", filename),
		filepath.Join("models", "paddle_weights", filename),
	}
	for _, p := range paths {
		if fileExists(p) {
			return p
		}
	}
	return paths[0]
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
