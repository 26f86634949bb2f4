package ocr

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/screenhelper/screenhelper/pkg/match"
)

// MatchMode 文字匹配方式
type MatchMode string

const (
	// ModeContains 子串匹配（默认）
	ModeContains MatchMode = "contains"
	// ModeExact 全文相等
	ModeExact MatchMode = "exact"
	// ModeRegex 正则匹配
	ModeRegex MatchMode = "regex"
)

// TokenQuery 文字查找条件
type TokenQuery struct {
	// Text 目标文字或正则表达式
	Text string
	// Mode 匹配方式，空值按 ModeContains 处理
	Mode MatchMode
	// MinConfidence 过滤低于该置信度的识别结果
	MinConfidence float64
	// CaseSensitive 是否区分大小写（ModeRegex 下忽略，由表达式自身控制）
	CaseSensitive bool
}

// MatchText 判断识别文字是否满足查找条件
func MatchText(text string, query TokenQuery) (bool, error) {
	target := query.Text
	switch query.Mode {
	case ModeRegex:
		re, err := regexp.Compile(target)
		if err != nil {
			return false, fmt.Errorf("正则表达式不合法 %q: %w", target, err)
		}
		return re.MatchString(text), nil
	case ModeExact:
		if !query.CaseSensitive {
			return strings.EqualFold(text, target), nil
		}
		return text == target, nil
	case ModeContains, "":
		if !query.CaseSensitive {
			text = strings.ToLower(text)
			target = strings.ToLower(target)
		}
		return strings.Contains(text, target), nil
	default:
		return false, fmt.Errorf("未知匹配方式: %q", query.Mode)
	}
}

// MatchTokens 按查找条件过滤识别结果并转换为候选
//
// 候选中心为边界框中心，分数为识别置信度，SourceRef 为识别文字。
// 输出顺序与输入一致（识别器的扫描顺序）。
func MatchTokens(tokens []Token, query TokenQuery) ([]match.Candidate, error) {
	var candidates []match.Candidate
	for _, token := range tokens {
		if token.Confidence < query.MinConfidence {
			continue
		}
		ok, err := MatchText(token.Text, query)
		if err != nil {
			return nil, err
		}
		if !ok {
			continue
		}

		cx, cy := token.Center()
		candidates = append(candidates, match.Candidate{
			Position:   match.Point{X: cx, Y: cy},
			Dimensions: match.Size{Width: token.Box[2] - token.Box[0], Height: token.Box[3] - token.Box[1]},
			Score:      token.Confidence,
			SourceRef:  token.Text,
		})
	}
	return candidates, nil
}
