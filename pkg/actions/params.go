// Package actions 提供标准操作的处理函数集合
// 将定位、输入、窗口、进程与文件能力绑定到操作注册表
package actions

import (
	"fmt"

	"github.com/screenhelper/screenhelper/pkg/match"
)

// stringParam 取必需的字符串参数
func stringParam(payload map[string]interface{}, key string) (string, error) {
	value, ok := payload[key].(string)
	if !ok || value == "" {
		return "", fmt.Errorf("缺少 %s 参数", key)
	}
	return value, nil
}

// optionalString 取可选的字符串参数
func optionalString(payload map[string]interface{}, key string) string {
	value, _ := payload[key].(string)
	return value
}

// optionalBool 取可选的布尔参数
func optionalBool(payload map[string]interface{}, key string) bool {
	value, _ := payload[key].(bool)
	return value
}

// intParam 取整数参数，JSON 反序列化产生 float64
func intParam(payload map[string]interface{}, key string) (int, bool) {
	switch v := payload[key].(type) {
	case int:
		return v, true
	case float64:
		return int(v), true
	}
	return 0, false
}

// floatParam 取浮点参数
func floatParam(payload map[string]interface{}, key string) (float64, bool) {
	switch v := payload[key].(type) {
	case float64:
		return v, true
	case int:
		return float64(v), true
	}
	return 0, false
}

// requireInt 取必需的整数参数
func requireInt(payload map[string]interface{}, key string) (int, error) {
	value, ok := intParam(payload, key)
	if !ok {
		return 0, fmt.Errorf("缺少 %s 参数", key)
	}
	return value, nil
}

// offsetParam 从上下文描述中取每轴容差
func offsetParam(ctx map[string]interface{}) match.Offset {
	x, _ := intParam(ctx, "offset_x")
	y, _ := intParam(ctx, "offset_y")
	return match.Offset{X: x, Y: y}
}

// candidatePositions 将候选转换为可序列化的位置列表
func candidatePositions(candidates []match.Candidate) []map[string]interface{} {
	positions := make([]map[string]interface{}, len(candidates))
	for i, cand := range candidates {
		positions[i] = map[string]interface{}{
			"x":     cand.Position.X,
			"y":     cand.Position.Y,
			"score": cand.Score,
		}
	}
	return positions
}
