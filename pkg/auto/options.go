package auto

import "time"

// Option 配置选项函数类型
type Option func(*Options)

// Options 自动化操作配置
type Options struct {
	// Timeout 等待类操作的超时时间，0 表示只尝试一次
	Timeout time.Duration
	// Threshold 图像匹配阈值 (0-1)
	Threshold float64
	// ClickOffset 点击偏移量
	ClickOffset Point
	// DoubleClick 是否双击
	DoubleClick bool
	// RightClick 是否右键点击
	RightClick bool
	// Region 搜索区域 (nil 表示全屏)
	Region *Region
	// MinMatchDistance 近邻去重的最小像素距离，0 表示不去重
	MinMatchDistance float64
	// PerAxisDistance 去重时按单轴距离而非欧氏距离比较
	PerAxisDistance bool
	// RequireAll 上下文解析要求所有上下文组满足
	RequireAll bool
	// MinConfidence OCR 置信度下限
	MinConfidence float64
}

// DefaultOptions 默认配置
func DefaultOptions() *Options {
	return &Options{
		Timeout:          3 * time.Second,
		Threshold:        0.8,
		MinMatchDistance: 10,
	}
}

// ApplyOptions 应用配置选项
func ApplyOptions(opts ...Option) *Options {
	o := DefaultOptions()
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// WithTimeout 设置超时时间
func WithTimeout(d time.Duration) Option {
	return func(o *Options) {
		o.Timeout = d
	}
}

// WithThreshold 设置匹配阈值
func WithThreshold(t float64) Option {
	return func(o *Options) {
		o.Threshold = t
	}
}

// WithClickOffset 设置点击偏移量
func WithClickOffset(x, y int) Option {
	return func(o *Options) {
		o.ClickOffset = Point{X: x, Y: y}
	}
}

// WithDoubleClick 设置双击
func WithDoubleClick() Option {
	return func(o *Options) {
		o.DoubleClick = true
	}
}

// WithRightClick 设置右键点击
func WithRightClick() Option {
	return func(o *Options) {
		o.RightClick = true
	}
}

// WithRegion 设置搜索区域
func WithRegion(x, y, width, height int) Option {
	return func(o *Options) {
		o.Region = &Region{X: x, Y: y, Width: width, Height: height}
	}
}

// WithMinMatchDistance 设置去重最小距离
func WithMinMatchDistance(d float64) Option {
	return func(o *Options) {
		o.MinMatchDistance = d
	}
}

// WithPerAxisDistance 去重按单轴距离比较
func WithPerAxisDistance() Option {
	return func(o *Options) {
		o.PerAxisDistance = true
	}
}

// WithRequireAll 要求所有上下文组满足
func WithRequireAll() Option {
	return func(o *Options) {
		o.RequireAll = true
	}
}

// WithMinConfidence 设置 OCR 置信度下限
func WithMinConfidence(c float64) Option {
	return func(o *Options) {
		o.MinConfidence = c
	}
}

// DefaultPollInterval 默认轮询间隔
const DefaultPollInterval = 200 * time.Millisecond
