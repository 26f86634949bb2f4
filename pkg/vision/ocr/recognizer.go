package ocr

import (
	"fmt"
	"image"
	"strings"
	"sync"
	"time"

	goocr "github.com/getcharzp/go-ocr"

	"github.com/screenhelper/screenhelper/internal/logger"
	"github.com/screenhelper/screenhelper/pkg/match"
)

// NoTextError 查找的文字未在图像中出现
type NoTextError struct {
	Query string
}

func (e *NoTextError) Error() string {
	return fmt.Sprintf("未找到目标文字: %s", e.Query)
}

// Recognizer OCR 识别器
// 底层引擎非并发安全，所有识别调用串行化
type Recognizer struct {
	engine goocr.Engine
	config Config
	log    *logger.Logger
	mu     sync.Mutex
}

// RecognizerOption 识别器配置选项
type RecognizerOption func(*Recognizer)

// WithLogger 设置日志器
func WithLogger(log *logger.Logger) RecognizerOption {
	return func(r *Recognizer) {
		r.log = log
	}
}

// NewRecognizer 创建 OCR 识别器
func NewRecognizer(config Config, opts ...RecognizerOption) (*Recognizer, error) {
	engine, err := goocr.NewPaddleOcrEngine(goocr.Config{
		OnnxRuntimeLibPath: config.OnnxRuntimeLibPath,
		DetModelPath:       config.DetModelPath,
		RecModelPath:       config.RecModelPath,
		DictPath:           config.DictPath,
	})
	if err != nil {
		return nil, fmt.Errorf("创建 OCR 引擎失败: %w", err)
	}

	r := &Recognizer{
		engine: engine,
		config: config,
		log:    logger.Discard(),
	}
	for _, opt := range opts {
		opt(r)
	}

	r.log.Info("OCR 引擎初始化成功")
	return r, nil
}

// Recognize 识别图像中的所有文字
func (r *Recognizer) Recognize(img image.Image) ([]Token, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	startTime := time.Now()
	results, err := r.engine.RunOCR(img)
	elapsed := float64(time.Since(startTime).Milliseconds())
	if err != nil {
		r.log.LogEvent("OCR", false, elapsed, "识别失败")
		return nil, fmt.Errorf("OCR 识别失败: %w", err)
	}

	tokens := make([]Token, 0, len(results))
	for _, result := range results {
		tokens = append(tokens, Token{
			Text:       result.Text,
			Confidence: float64(result.Score),
			Box:        result.Box,
		})
	}

	r.log.LogEvent("OCR", true, elapsed, fmt.Sprintf("识别到 %d 个文本", len(tokens)))
	return tokens, nil
}

// FindTokens 查找满足条件的文字候选
// 无任何命中时返回 NoTextError
func (r *Recognizer) FindTokens(img image.Image, query TokenQuery) ([]match.Candidate, error) {
	tokens, err := r.Recognize(img)
	if err != nil {
		return nil, err
	}

	candidates, err := MatchTokens(tokens, query)
	if err != nil {
		return nil, err
	}
	if len(candidates) == 0 {
		return nil, &NoTextError{Query: query.Text}
	}
	return candidates, nil
}

// AllText 获取图像中的所有文字（拼接）
func (r *Recognizer) AllText(img image.Image) (string, error) {
	tokens, err := r.Recognize(img)
	if err != nil {
		return "", err
	}

	var texts []string
	for _, token := range tokens {
		if token.Text != "" {
			texts = append(texts, token.Text)
		}
	}
	return strings.Join(texts, " "), nil
}

// Close 释放引擎资源
func (r *Recognizer) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.engine != nil {
		r.engine.Destroy()
		r.engine = nil
	}
	return nil
}
