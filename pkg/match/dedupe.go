package match

import "math"

// DistancePolicy 去重时的距离判定方式
type DistancePolicy int

const (
	// DistanceEuclidean 欧几里得距离（默认）
	DistanceEuclidean DistancePolicy = iota
	// DistancePerAxis 每轴独立比较，任一候选在两个轴上都足够近才视为重复
	DistancePerAxis
)

// DedupeOption 去重选项
type DedupeOption func(*dedupeConfig)

type dedupeConfig struct {
	policy DistancePolicy
}

// WithAxisDistance 使用每轴独立的距离比较代替欧几里得距离
func WithAxisDistance() DedupeOption {
	return func(c *dedupeConfig) {
		c.policy = DistancePerAxis
	}
}

// FilterNearby 过滤相邻的重复候选，每组相邻点仅保留最先出现的一个
//
// 按输入顺序处理：与任一已保留候选的距离严格小于 minDistance 的
// 候选被丢弃，否则加入保留列表。结果保持输入顺序，不产生新候选。
// 空输入返回空结果。
func FilterNearby(candidates []Candidate, minDistance float64, opts ...DedupeOption) []Candidate {
	cfg := &dedupeConfig{policy: DistanceEuclidean}
	for _, opt := range opts {
		opt(cfg)
	}

	retained := make([]Candidate, 0, len(candidates))
	for _, cand := range candidates {
		tooClose := false
		for _, kept := range retained {
			if cfg.tooClose(kept.Position, cand.Position, minDistance) {
				tooClose = true
				break
			}
		}
		if !tooClose {
			retained = append(retained, cand)
		}
	}
	return retained
}

func (c *dedupeConfig) tooClose(a, b Point, minDistance float64) bool {
	if c.policy == DistancePerAxis {
		return float64(abs(a.X-b.X)) < minDistance && float64(abs(a.Y-b.Y)) < minDistance
	}
	return Distance(a, b) < minDistance
}

// Distance 计算两点间的欧几里得距离
func Distance(a, b Point) float64 {
	dx := float64(a.X - b.X)
	dy := float64(a.Y - b.Y)
	return math.Sqrt(dx*dx + dy*dy)
}
