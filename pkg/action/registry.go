// Package action 提供操作注册表与带重试的操作执行队列
//
// 注册表把操作类型映射到处理函数，由调用方显式构造并传入队列，
// 避免跨实例的隐藏耦合。队列按 FIFO 顺序执行操作，失败时在
// 有限次重试后停机并保留检查点（剩余待执行列表），供调用方
// 持久化后再次恢复执行。
package action

import "sort"

// Handler 操作处理函数
// 接收操作参数并返回任意结果，结果对队列不透明
type Handler func(options map[string]interface{}) (interface{}, error)

// Registry 操作类型到处理函数的映射，只追加
type Registry struct {
	handlers map[string]Handler
}

// NewRegistry 创建空的操作注册表
func NewRegistry() *Registry {
	return &Registry{handlers: make(map[string]Handler)}
}

// Register 注册单个操作类型
// 重复注册返回 DuplicateActionError，空处理函数返回 InvalidHandlerError
func (r *Registry) Register(actionType string, handler Handler) error {
	if handler == nil {
		return &InvalidHandlerError{ActionType: actionType}
	}
	if _, exists := r.handlers[actionType]; exists {
		return &DuplicateActionError{ActionType: actionType}
	}
	r.handlers[actionType] = handler
	return nil
}

// RegisterAll 批量注册操作类型
// 任一注册失败立即返回错误，已注册的部分保持生效
func (r *Registry) RegisterAll(mapping map[string]Handler) error {
	// 固定遍历顺序，保证失败时行为可复现
	types := make([]string, 0, len(mapping))
	for actionType := range mapping {
		types = append(types, actionType)
	}
	sort.Strings(types)

	for _, actionType := range types {
		if err := r.Register(actionType, mapping[actionType]); err != nil {
			return err
		}
	}
	return nil
}

// Resolve 查找操作类型对应的处理函数
func (r *Registry) Resolve(actionType string) (Handler, error) {
	handler, ok := r.handlers[actionType]
	if !ok {
		return nil, &UnknownActionError{ActionType: actionType}
	}
	return handler, nil
}

// Types 返回已注册的操作类型（排序后）
func (r *Registry) Types() []string {
	types := make([]string, 0, len(r.handlers))
	for actionType := range r.handlers {
		types = append(types, actionType)
	}
	sort.Strings(types)
	return types
}
