package action

import "fmt"

// DuplicateActionError 重复注册同一操作类型
// 注册表只追加不覆盖，避免自动化原语被悄悄替换
type DuplicateActionError struct {
	ActionType string
}

func (e *DuplicateActionError) Error() string {
	return fmt.Sprintf("操作类型 '%s' 已注册", e.ActionType)
}

// InvalidHandlerError 注册的处理函数无效
type InvalidHandlerError struct {
	ActionType string
}

func (e *InvalidHandlerError) Error() string {
	return fmt.Sprintf("操作类型 '%s' 的处理函数不可为空", e.ActionType)
}

// UnknownActionError 查找不存在的操作类型
type UnknownActionError struct {
	ActionType string
}

func (e *UnknownActionError) Error() string {
	return fmt.Sprintf("未知的操作类型: %s", e.ActionType)
}

// NotFoundError 结果查找失败（执行标识符或嵌套键不存在）
type NotFoundError struct {
	ExecuteID string
	Key       string
}

func (e *NotFoundError) Error() string {
	if e.Key != "" {
		return fmt.Sprintf("执行记录 '%s' 中未找到键 '%s'", e.ExecuteID, e.Key)
	}
	return fmt.Sprintf("未找到执行记录: %s", e.ExecuteID)
}

// ParamError 操作参数错误（配置错误，不重试）
type ParamError struct {
	ActionType string
	Message    string
}

func (e *ParamError) Error() string {
	return fmt.Sprintf("操作 '%s' 参数错误: %s", e.ActionType, e.Message)
}
