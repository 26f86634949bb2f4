// Package cv 提供基于模板匹配的图像候选生产
//
// Matcher 在屏幕截图中查找模板图像的所有匹配位置，输出统一的
// match.Candidate 列表，供 match 包的去重与上下文约束解析消费。
package cv

import (
	"errors"
	"fmt"
	"image"

	"github.com/google/uuid"
	"gocv.io/x/gocv"

	"github.com/screenhelper/screenhelper/internal/logger"
	"github.com/screenhelper/screenhelper/pkg/config"
	"github.com/screenhelper/screenhelper/pkg/match"
)

// DefaultThreshold 默认匹配阈值
const DefaultThreshold = 0.8

// NoMatchError 最佳匹配分数未达到阈值
// 生产方以错误表示"没有候选"，解析层以空结果表示"没有匹配"
type NoMatchError struct {
	Best      float64
	Threshold float64
}

func (e *NoMatchError) Error() string {
	return fmt.Sprintf("匹配失败，当前最高分 %.4f 未达到定义阈值 %.4f", e.Best, e.Threshold)
}

// Matcher 模板匹配器
type Matcher struct {
	scaleFactor float64
	threshold   float64
	templates   map[string]gocv.Mat
	// templateIDs 按模板内容签名复用标识符，同一模板多次匹配只留存一份副本
	templateIDs map[string]string
	log         *logger.Logger
}

// MatcherOption 匹配器配置选项
type MatcherOption func(*Matcher)

// WithScaleFactor 设置截图缩放因子
func WithScaleFactor(factor float64) MatcherOption {
	return func(m *Matcher) {
		if factor > 0 {
			m.scaleFactor = factor
		}
	}
}

// WithThreshold 设置默认匹配阈值
func WithThreshold(threshold float64) MatcherOption {
	return func(m *Matcher) {
		m.threshold = threshold
	}
}

// WithLogger 设置日志器
func WithLogger(log *logger.Logger) MatcherOption {
	return func(m *Matcher) {
		m.log = log
	}
}

// NewMatcher 创建模板匹配器
func NewMatcher(opts ...MatcherOption) *Matcher {
	m := &Matcher{
		scaleFactor: 1,
		threshold:   DefaultThreshold,
		templates:   make(map[string]gocv.Mat),
		templateIDs: make(map[string]string),
		log:         logger.Discard(),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// NewMatcherFromSettings 从配置创建匹配器
func NewMatcherFromSettings(settings *config.Settings, opts ...MatcherOption) *Matcher {
	base := []MatcherOption{
		WithScaleFactor(settings.ScaleFactor),
		WithThreshold(settings.Threshold),
	}
	return NewMatcher(append(base, opts...)...)
}

// Threshold 返回默认匹配阈值
func (m *Matcher) Threshold() float64 {
	return m.threshold
}

// AddTemplate 登记模板并返回其标识符
// 标识符写入候选的 SourceRef，仅用于回查
func (m *Matcher) AddTemplate(template gocv.Mat) string {
	id := fmt.Sprintf("templates_%s", uuid.NewString())
	m.templates[id] = template
	return id
}

// templateSignature 计算模板的内容签名
func templateSignature(template gocv.Mat) string {
	sum := template.Sum()
	return fmt.Sprintf("%dx%d/%d:%g,%g,%g,%g",
		template.Cols(), template.Rows(), template.Type(),
		sum.Val1, sum.Val2, sum.Val3, sum.Val4)
}

// registerTemplate 登记模板，同一内容的模板复用已有标识符
func (m *Matcher) registerTemplate(template gocv.Mat) string {
	sig := templateSignature(template)
	if id, ok := m.templateIDs[sig]; ok {
		return id
	}
	id := m.AddTemplate(template.Clone())
	m.templateIDs[sig] = id
	return id
}

// TemplateFor 根据标识符取回模板
func (m *Matcher) TemplateFor(id string) (gocv.Mat, bool) {
	template, ok := m.templates[id]
	return template, ok
}

// Close 释放登记的模板资源
func (m *Matcher) Close() {
	for id, template := range m.templates {
		template.Close()
		delete(m.templates, id)
	}
	m.templateIDs = make(map[string]string)
}

// FindAll 在屏幕图像中查找模板的所有匹配位置
//
// 屏幕先按缩放因子缩放，匹配使用 TM_CCOEFF_NORMED；所有分数不低于
// threshold 的位置转换为候选，中心坐标除以缩放因子还原到截图坐标系。
// threshold <= 0 时使用匹配器默认阈值。最高分低于阈值时返回 NoMatchError。
func (m *Matcher) FindAll(screen, template gocv.Mat, threshold float64) ([]match.Candidate, error) {
	if threshold <= 0 {
		threshold = m.threshold
	}
	if err := checkSourceLargerThanSearch(screen, template); err != nil {
		return nil, err
	}

	resized := gocv.NewMat()
	defer resized.Close()
	gocv.Resize(screen, &resized, image.Point{}, m.scaleFactor, m.scaleFactor, gocv.InterpolationLinear)

	result := gocv.NewMat()
	defer result.Close()
	mask := gocv.NewMat()
	defer mask.Close()
	gocv.MatchTemplate(resized, template, &result, gocv.TmCcoeffNormed, mask)

	_, maxVal, _, _ := gocv.MinMaxLoc(result)
	if float64(maxVal) < threshold {
		m.log.Debug("模板匹配未命中: best=%.4f threshold=%.4f", maxVal, threshold)
		return nil, &NoMatchError{Best: float64(maxVal), Threshold: threshold}
	}

	ref := m.registerTemplate(template)
	w, h := template.Cols(), template.Rows()

	var candidates []match.Candidate
	for y := 0; y < result.Rows(); y++ {
		for x := 0; x < result.Cols(); x++ {
			score := float64(result.GetFloatAt(y, x))
			if score < threshold {
				continue
			}
			candidates = append(candidates, match.Candidate{
				Position: match.Point{
					X: int(float64(x+w/2) / m.scaleFactor),
					Y: int(float64(y+h/2) / m.scaleFactor),
				},
				Dimensions: match.Size{Width: w, Height: h},
				Score:      score,
				SourceRef:  ref,
			})
		}
	}

	m.log.Debug("模板匹配命中 %d 个位置 (threshold=%.2f)", len(candidates), threshold)
	return candidates, nil
}

// ContextSpec 一次上下文搜索的描述
type ContextSpec struct {
	// Template 上下文模板图像
	Template gocv.Mat
	// Offset 与主候选的每轴容差
	Offset match.Offset
	// Threshold 上下文搜索阈值，<= 0 时使用匹配器默认值
	Threshold float64
}

// FindWithContexts 查找第一个满足上下文约束的模板匹配
//
// 先查找主模板的全部候选，再对每个上下文描述执行独立搜索构成
// 上下文组（搜索未命中的组为空组），最后交由 match.ResolveFirst
// 取第一个可接受的主候选。requireAll 指定是否要求所有组满足。
func (m *Matcher) FindWithContexts(screen, template gocv.Mat, contexts []ContextSpec, requireAll bool) (match.Match, bool, error) {
	primaries, groups, err := m.gatherContextInputs(screen, template, contexts)
	if err != nil {
		return match.Match{}, false, err
	}
	result, ok := match.ResolveFirst(primaries, groups, requireAll)
	return result, ok, nil
}

// FindAllWithContexts 查找所有满足上下文约束的模板匹配（批量模式）
func (m *Matcher) FindAllWithContexts(screen, template gocv.Mat, contexts []ContextSpec, requireAll bool) ([]match.Match, error) {
	primaries, groups, err := m.gatherContextInputs(screen, template, contexts)
	if err != nil {
		return nil, err
	}
	return match.Resolve(primaries, groups, requireAll), nil
}

// gatherContextInputs 为上下文解析准备主候选与上下文组
func (m *Matcher) gatherContextInputs(screen, template gocv.Mat, contexts []ContextSpec) ([]match.Candidate, []match.ContextGroup, error) {
	primaries, err := m.FindAll(screen, template, m.threshold)
	if err != nil {
		return nil, nil, err
	}

	groups := make([]match.ContextGroup, 0, len(contexts))
	for _, ctx := range contexts {
		candidates, err := m.FindAll(screen, ctx.Template, ctx.Threshold)
		if err != nil {
			var noMatch *NoMatchError
			if !errors.As(err, &noMatch) {
				return nil, nil, err
			}
			// 未命中的上下文构成空组，requireAll 下将拒绝所有主候选
			candidates = nil
		}
		groups = append(groups, match.ContextGroup{Candidates: candidates, Offset: ctx.Offset})
	}
	return primaries, groups, nil
}

// Compare 判断两张截图是否发生变化
// 以 TM_CCOEFF_NORMED 相似度与阈值比较，相似度低于阈值视为已变化
func (m *Matcher) Compare(before, after gocv.Mat, threshold float64) (bool, error) {
	if threshold <= 0 {
		threshold = 0.9
	}

	result := gocv.NewMat()
	defer result.Close()
	mask := gocv.NewMat()
	defer mask.Close()
	gocv.MatchTemplate(before, after, &result, gocv.TmCcoeffNormed, mask)

	_, maxVal, _, _ := gocv.MinMaxLoc(result)
	return float64(maxVal) < threshold, nil
}
