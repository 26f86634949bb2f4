package action

import "strings"

// StatusSuccess 操作执行成功
const StatusSuccess = "success"

// Item 队列中的一个操作
type Item struct {
	// ActionType 注册表中的操作类型
	ActionType string `json:"action_type"`
	// Options 操作参数；execution_id 与 retry_count 为队列保留键，
	// 在调用处理函数前被取出
	Options map[string]interface{} `json:"options,omitempty"`
}

// Record 执行台账中的一条记录
// 在首次尝试时创建，每次重试原地更新，队列运行期间不会删除
type Record struct {
	// ExecuteID 进程内唯一的执行标识符
	ExecuteID string `json:"execute_id"`
	// ActionType 操作类型
	ActionType string `json:"action_type"`
	// Options 传递给处理函数的参数（保留键已移除）
	Options map[string]interface{} `json:"options"`
	// Status "success" 或最后一次尝试的错误信息
	Status string `json:"status"`
	// Result 处理函数的返回值（仅成功时）
	Result interface{} `json:"result,omitempty"`
	// Errors 按尝试次序累积的错误信息（仅失败时）
	Errors []string `json:"errors,omitempty"`
}

// Succeeded 记录是否为成功状态
func (r *Record) Succeeded() bool {
	return r.Status == StatusSuccess
}

// ErrorTrace 拼接全部尝试的错误信息
func (r *Record) ErrorTrace() string {
	return strings.Join(r.Errors, "; ")
}

// Result 一次队列运行的结果：执行台账 + 剩余待执行操作
//
// Pending 非空表示队列因某个操作重试耗尽而停机，该操作位于
// Pending 头部。调用方可持久化 Pending 并在之后重新执行以恢复。
type Result struct {
	// Ledger 执行标识符到记录的映射
	Ledger map[string]*Record `json:"ledger"`
	// Pending 剩余待执行的操作，保持原有顺序
	Pending []Item `json:"pending"`
}

// Completed 队列是否全部执行完成
func (r *Result) Completed() bool {
	return len(r.Pending) == 0
}

// Get 查找执行记录或其中的嵌套值
//
// keyPath 为空返回整条记录；否则按 '.' 分隔逐层访问，首段取记录
// 字段 (status/action_type/options/result/errors)，其余各段在嵌套
// map 中查找。标识符或键路径不存在时返回 NotFoundError。
func (r *Result) Get(executeID, keyPath string) (interface{}, error) {
	record, ok := r.Ledger[executeID]
	if !ok {
		return nil, &NotFoundError{ExecuteID: executeID}
	}
	if keyPath == "" {
		return record, nil
	}

	keys := strings.Split(keyPath, ".")
	var value interface{}
	switch keys[0] {
	case "status":
		value = record.Status
	case "action_type":
		value = record.ActionType
	case "options":
		value = record.Options
	case "result":
		value = record.Result
	case "errors":
		value = record.Errors
	default:
		return nil, &NotFoundError{ExecuteID: executeID, Key: keyPath}
	}

	for _, k := range keys[1:] {
		m, ok := value.(map[string]interface{})
		if !ok {
			return nil, &NotFoundError{ExecuteID: executeID, Key: keyPath}
		}
		value, ok = m[k]
		if !ok {
			return nil, &NotFoundError{ExecuteID: executeID, Key: keyPath}
		}
	}
	return value, nil
}
