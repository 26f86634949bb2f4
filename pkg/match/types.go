// Package match 提供候选匹配的去重与上下文约束解析
//
// 图像匹配与 OCR 文字识别产生的候选统一表示为 Candidate，
// 后续的去重 (FilterNearby) 和上下文约束 (Resolve/ResolveFirst)
// 对两类候选使用同一套算法。
package match

// Point 表示二维坐标点
type Point struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// Size 表示宽高
type Size struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

// Candidate 一个定位到的候选区域
// Position 为区域中心点，坐标系与产生它的截图一致
// （生产方负责缩放还原）
type Candidate struct {
	// Position 区域中心的绝对屏幕坐标
	Position Point `json:"position"`
	// Dimensions 区域尺寸
	Dimensions Size `json:"dimensions"`
	// Score 匹配置信度 (模板相关性或 OCR 置信度)
	Score float64 `json:"score,omitempty"`
	// SourceRef 产生该候选的模板/文字标识，仅用于回查
	SourceRef string `json:"source_ref,omitempty"`
}

// Offset 每轴独立的容差（含边界）
// 上下文候选满足约束当且仅当 |dx| <= X 且 |dy| <= Y
type Offset struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// ContextGroup 一组上下文候选及其位置容差
// Candidates 由辅助搜索（另一个模板或文字）在同一张截图上产生
type ContextGroup struct {
	Candidates []Candidate `json:"candidates"`
	Offset     Offset      `json:"offset"`
}

// Match 上下文解析通过的主候选
type Match struct {
	// Candidate 被接受的主候选
	Candidate Candidate `json:"candidate"`
	// ContextMatches 每个被满足的上下文组贡献的候选，按组顺序排列
	ContextMatches []Candidate `json:"context_matches,omitempty"`
}

// withinOffset 检查两点偏移是否在容差内（每轴独立，含边界）
func withinOffset(a, b Point, offset Offset) bool {
	return abs(a.X-b.X) <= offset.X && abs(a.Y-b.Y) <= offset.Y
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
