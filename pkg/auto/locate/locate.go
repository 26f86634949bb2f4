// Package locate 将候选生产、去重与上下文解析组合为定位操作
package locate

import (
	"errors"
	"fmt"
	"time"

	"gocv.io/x/gocv"

	"github.com/screenhelper/screenhelper/internal/logger"
	"github.com/screenhelper/screenhelper/pkg/auto"
	"github.com/screenhelper/screenhelper/pkg/auto/input"
	"github.com/screenhelper/screenhelper/pkg/auto/screen"
	"github.com/screenhelper/screenhelper/pkg/config"
	"github.com/screenhelper/screenhelper/pkg/match"
	"github.com/screenhelper/screenhelper/pkg/vision/cv"
	"github.com/screenhelper/screenhelper/pkg/vision/ocr"
)

// ImageContext 图像定位的上下文约束
type ImageContext struct {
	// TemplatePath 上下文模板图像路径
	TemplatePath string `json:"template_path"`
	// Offset 与主候选的每轴容差
	Offset match.Offset `json:"offset"`
	// Threshold 上下文搜索阈值，0 表示沿用默认值
	Threshold float64 `json:"threshold,omitempty"`
}

// TextContext 文字定位的上下文约束
type TextContext struct {
	// Query 上下文文字查找条件
	Query ocr.TokenQuery `json:"query"`
	// Offset 与主候选的每轴容差
	Offset match.Offset `json:"offset"`
}

// Locator 屏幕元素定位器
// Recognizer 可为 nil，此时文字定位操作返回错误
type Locator struct {
	matcher    *cv.Matcher
	recognizer *ocr.Recognizer
	settings   *config.Settings
	log        *logger.Logger
}

// LocatorOption 定位器配置选项
type LocatorOption func(*Locator)

// WithRecognizer 设置 OCR 识别器
func WithRecognizer(r *ocr.Recognizer) LocatorOption {
	return func(l *Locator) {
		l.recognizer = r
	}
}

// WithLogger 设置日志器
func WithLogger(log *logger.Logger) LocatorOption {
	return func(l *Locator) {
		l.log = log
	}
}

// NewLocator 创建定位器
func NewLocator(settings *config.Settings, opts ...LocatorOption) *Locator {
	l := &Locator{
		matcher:  cv.NewMatcherFromSettings(settings),
		settings: settings,
		log:      logger.Discard(),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Close 释放定位器资源
func (l *Locator) Close() {
	l.matcher.Close()
	if l.recognizer != nil {
		l.recognizer.Close()
	}
}

// dedupe 按配置去除近邻重复候选
func (l *Locator) dedupe(candidates []match.Candidate, o *auto.Options) []match.Candidate {
	if o.MinMatchDistance <= 0 {
		return candidates
	}
	var dedupeOpts []match.DedupeOption
	if o.PerAxisDistance {
		dedupeOpts = append(dedupeOpts, match.WithAxisDistance())
	}
	return match.FilterNearby(candidates, o.MinMatchDistance, dedupeOpts...)
}

// shiftMatch 将解析结果整体平移回全屏坐标系
// 主候选与各上下文候选同属一张区域截图，必须一并平移
func shiftMatch(result match.Match, region *auto.Region) match.Match {
	result.Candidate = shiftCandidates([]match.Candidate{result.Candidate}, region)[0]
	result.ContextMatches = shiftCandidates(result.ContextMatches, region)
	return result
}

// shiftCandidates 将区域内坐标平移回全屏坐标系
func shiftCandidates(candidates []match.Candidate, region *auto.Region) []match.Candidate {
	if region == nil {
		return candidates
	}
	shifted := make([]match.Candidate, len(candidates))
	for i, cand := range candidates {
		cand.Position.X += region.X
		cand.Position.Y += region.Y
		shifted[i] = cand
	}
	return shifted
}

// captureMat 按 Options 截屏并转换为 Mat
func (l *Locator) captureMat(o *auto.Options) (gocv.Mat, error) {
	img, err := screen.CaptureOptions(o)
	if err != nil {
		return gocv.Mat{}, err
	}
	return cv.ImageToMat(img)
}

// FindImage 查找模板图像的全部候选（已去重，全屏坐标）
func (l *Locator) FindImage(templatePath string, opts ...auto.Option) ([]match.Candidate, error) {
	o := auto.ApplyOptions(opts...)

	template, err := cv.ReadImage(templatePath)
	if err != nil {
		return nil, err
	}
	defer template.Close()

	screenMat, err := l.captureMat(o)
	if err != nil {
		return nil, err
	}
	defer screenMat.Close()

	candidates, err := l.matcher.FindAll(screenMat, template, o.Threshold)
	if err != nil {
		return nil, err
	}
	return shiftCandidates(l.dedupe(candidates, o), o.Region), nil
}

// FindImageWithContexts 查找满足上下文约束的模板图像
//
// requireAll 为 false 时返回第一个可接受的主候选；为 true 时仍只
// 返回第一个，但每个主候选需满足所有上下文组。主候选在解析前
// 已按配置去重。
func (l *Locator) FindImageWithContexts(templatePath string, contexts []ImageContext, opts ...auto.Option) (match.Match, bool, error) {
	o := auto.ApplyOptions(opts...)

	template, err := cv.ReadImage(templatePath)
	if err != nil {
		return match.Match{}, false, err
	}
	defer template.Close()

	screenMat, err := l.captureMat(o)
	if err != nil {
		return match.Match{}, false, err
	}
	defer screenMat.Close()

	primaries, err := l.matcher.FindAll(screenMat, template, o.Threshold)
	if err != nil {
		return match.Match{}, false, err
	}
	primaries = l.dedupe(primaries, o)

	groups := make([]match.ContextGroup, 0, len(contexts))
	for _, ctx := range contexts {
		ctxTemplate, err := cv.ReadImage(ctx.TemplatePath)
		if err != nil {
			return match.Match{}, false, err
		}

		candidates, err := l.matcher.FindAll(screenMat, ctxTemplate, ctx.Threshold)
		ctxTemplate.Close()
		if err != nil {
			var noMatch *cv.NoMatchError
			if !errors.As(err, &noMatch) {
				return match.Match{}, false, err
			}
			candidates = nil
		}
		groups = append(groups, match.ContextGroup{Candidates: candidates, Offset: ctx.Offset})
	}

	result, ok := match.ResolveFirst(primaries, groups, o.RequireAll)
	if !ok {
		return match.Match{}, false, nil
	}
	return shiftMatch(result, o.Region), true, nil
}

// FindText 查找满足条件的文字候选（已去重，全屏坐标）
func (l *Locator) FindText(query ocr.TokenQuery, opts ...auto.Option) ([]match.Candidate, error) {
	if l.recognizer == nil {
		return nil, fmt.Errorf("OCR 识别器未配置")
	}
	o := auto.ApplyOptions(opts...)
	if query.MinConfidence == 0 {
		query.MinConfidence = o.MinConfidence
	}

	img, err := screen.CaptureOptions(o)
	if err != nil {
		return nil, err
	}

	candidates, err := l.recognizer.FindTokens(img, query)
	if err != nil {
		return nil, err
	}
	return shiftCandidates(l.dedupe(candidates, o), o.Region), nil
}

// FindTextWithContexts 查找满足上下文约束的文字
// 上下文组由同一次识别结果按各自条件过滤得到，不重复执行 OCR
func (l *Locator) FindTextWithContexts(query ocr.TokenQuery, contexts []TextContext, opts ...auto.Option) (match.Match, bool, error) {
	if l.recognizer == nil {
		return match.Match{}, false, fmt.Errorf("OCR 识别器未配置")
	}
	o := auto.ApplyOptions(opts...)
	if query.MinConfidence == 0 {
		query.MinConfidence = o.MinConfidence
	}

	img, err := screen.CaptureOptions(o)
	if err != nil {
		return match.Match{}, false, err
	}

	tokens, err := l.recognizer.Recognize(img)
	if err != nil {
		return match.Match{}, false, err
	}

	primaries, err := ocr.MatchTokens(tokens, query)
	if err != nil {
		return match.Match{}, false, err
	}
	primaries = l.dedupe(primaries, o)

	groups := make([]match.ContextGroup, 0, len(contexts))
	for _, ctx := range contexts {
		candidates, err := ocr.MatchTokens(tokens, ctx.Query)
		if err != nil {
			return match.Match{}, false, err
		}
		groups = append(groups, match.ContextGroup{Candidates: candidates, Offset: ctx.Offset})
	}

	result, ok := match.ResolveFirst(primaries, groups, o.RequireAll)
	if !ok {
		return match.Match{}, false, nil
	}
	return shiftMatch(result, o.Region), true, nil
}

// WaitForImage 等待图像出现，返回第一个候选位置
func (l *Locator) WaitForImage(templatePath string, opts ...auto.Option) (*auto.Point, error) {
	o := auto.ApplyOptions(opts...)

	startTime := time.Now()
	for {
		candidates, err := l.FindImage(templatePath, opts...)
		if err == nil && len(candidates) > 0 {
			pos := candidates[0].Position
			return &auto.Point{X: pos.X, Y: pos.Y}, nil
		}
		if err != nil {
			var noMatch *cv.NoMatchError
			if !errors.As(err, &noMatch) {
				return nil, err
			}
		}

		if o.Timeout == 0 || time.Since(startTime) > o.Timeout {
			return nil, fmt.Errorf("等待图像超时: %s", templatePath)
		}
		auto.Sleep(auto.DefaultPollInterval)
	}
}

// WaitForText 等待文字出现，返回第一个候选位置
func (l *Locator) WaitForText(query ocr.TokenQuery, opts ...auto.Option) (*auto.Point, error) {
	o := auto.ApplyOptions(opts...)

	startTime := time.Now()
	for {
		candidates, err := l.FindText(query, opts...)
		if err == nil && len(candidates) > 0 {
			pos := candidates[0].Position
			return &auto.Point{X: pos.X, Y: pos.Y}, nil
		}
		if err != nil {
			var noText *ocr.NoTextError
			if !errors.As(err, &noText) {
				return nil, err
			}
		}

		if o.Timeout == 0 || time.Since(startTime) > o.Timeout {
			return nil, fmt.Errorf("等待文字超时: %s", query.Text)
		}
		auto.Sleep(auto.DefaultPollInterval)
	}
}

// ClickImage 等待图像出现并点击
func (l *Locator) ClickImage(templatePath string, opts ...auto.Option) error {
	o := auto.ApplyOptions(opts...)

	pos, err := l.WaitForImage(templatePath, opts...)
	if err != nil {
		return err
	}
	return input.ClickAt(pos.X+o.ClickOffset.X, pos.Y+o.ClickOffset.Y, o)
}

// ClickText 等待文字出现并点击
func (l *Locator) ClickText(query ocr.TokenQuery, opts ...auto.Option) error {
	o := auto.ApplyOptions(opts...)

	pos, err := l.WaitForText(query, opts...)
	if err != nil {
		return err
	}
	return input.ClickAt(pos.X+o.ClickOffset.X, pos.Y+o.ClickOffset.Y, o)
}

// ImageExists 检查图像是否存在（不等待）
func (l *Locator) ImageExists(templatePath string, opts ...auto.Option) bool {
	candidates, err := l.FindImage(templatePath, opts...)
	return err == nil && len(candidates) > 0
}
