package action

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/screenhelper/screenhelper/internal/logger"
)

// 队列在 Options 中识别的保留键
const (
	// OptionExecutionID 调用方指定的执行标识符
	OptionExecutionID = "execution_id"
	// OptionRetryCount 单个操作的重试次数
	OptionRetryCount = "retry_count"
)

// DefaultRetryCount 默认重试次数（总尝试次数为重试次数 + 1）
const DefaultRetryCount = 3

// QueueOption 队列配置选项
type QueueOption func(*Queue)

// WithLogger 设置队列使用的日志器
func WithLogger(log *logger.Logger) QueueOption {
	return func(q *Queue) {
		q.log = log
	}
}

// WithDebug 启用调试模式
// 调试模式下重试耗尽立即返回错误，放弃可恢复性换取快速诊断
func WithDebug(enable bool) QueueOption {
	return func(q *Queue) {
		q.debug = enable
	}
}

// WithDefaultRetries 设置未指定 retry_count 时的默认重试次数
func WithDefaultRetries(n int) QueueOption {
	return func(q *Queue) {
		if n >= 0 {
			q.defaultRetries = n
		}
	}
}

// Queue 操作执行队列
//
// 单线程同步执行：一个操作（包括其全部重试）执行完成后才开始
// 下一个，操作之间没有重叠。队列自身不持有跨运行状态，台账与
// 待执行列表归单次 Run 调用所有。
type Queue struct {
	registry       *Registry
	log            *logger.Logger
	debug          bool
	defaultRetries int
}

// NewQueue 创建操作执行队列
func NewQueue(registry *Registry, opts ...QueueOption) *Queue {
	q := &Queue{
		registry:       registry,
		log:            logger.Discard(),
		defaultRetries: DefaultRetryCount,
	}
	for _, opt := range opts {
		opt(q)
	}
	return q
}

// Run 按顺序执行操作队列
//
// 每个操作的状态机: PENDING → (尝试至多 retry_count+1 次) → SUCCESS | FAILED。
// 成功的操作记入台账后继续下一个；重试耗尽时把该操作重新插入
// 待执行列表头部并停机，返回已有台账与剩余操作作为检查点。
//
// 配置错误（未知操作类型、保留键类型不合法）立即返回错误，不重试；
// 此时失败操作同样位于返回的 Pending 头部，检查点不变式保持成立。
// 调试模式下瞬时错误的重试耗尽也立即返回错误，并携带完整错误轨迹。
func (q *Queue) Run(items []Item) (*Result, error) {
	result := &Result{
		Ledger:  make(map[string]*Record),
		Pending: append([]Item(nil), items...),
	}

	for len(result.Pending) > 0 {
		item := result.Pending[0]
		result.Pending = result.Pending[1:]

		prep, err := q.prepare(item)
		if err != nil {
			// 配置错误：立即报告，保持检查点不变式
			result.Pending = append([]Item{item}, result.Pending...)
			q.log.Error("队列停机（配置错误）: %v", err)
			return result, err
		}

		retries := prep.retries
		rec := prep.record
		result.Ledger[rec.ExecuteID] = rec

		q.log.Info("[Action:%s] 开始执行 type=%s", rec.ExecuteID, rec.ActionType)

		if q.attempt(prep.handler, rec, retries) {
			q.log.Info("[Action:%s] 执行成功", rec.ExecuteID)
			continue
		}

		// 重试耗尽
		if q.debug {
			err := fmt.Errorf("操作 '%s' 执行失败 (%d 次尝试): %s",
				rec.ActionType, retries+1, rec.ErrorTrace())
			q.log.Error("[Action:%s] %v", rec.ExecuteID, err)
			result.Pending = append([]Item{item}, result.Pending...)
			return result, err
		}

		q.log.Error("[Action:%s] 重试耗尽，队列停机: %s", rec.ExecuteID, rec.ErrorTrace())
		result.Pending = append([]Item{item}, result.Pending...)
		return result, nil
	}

	return result, nil
}

// RunSingle 执行单个操作并返回其记录
func (q *Queue) RunSingle(item Item) (*Record, error) {
	result, err := q.Run([]Item{item})
	if err != nil {
		return nil, err
	}
	for _, rec := range result.Ledger {
		return rec, nil
	}
	return nil, &UnknownActionError{ActionType: item.ActionType}
}

// prepared 一次执行前的解析结果
type prepared struct {
	handler Handler
	record  *Record
	retries int
}

// prepare 解析执行标识符与重试次数，查找处理函数
func (q *Queue) prepare(item Item) (*prepared, error) {
	handler, err := q.registry.Resolve(item.ActionType)
	if err != nil {
		return nil, err
	}

	options := item.Options
	if options == nil {
		options = map[string]interface{}{}
	}

	executeID, err := takeExecutionID(item.ActionType, options)
	if err != nil {
		return nil, err
	}
	if executeID == "" {
		executeID = uuid.NewString()
	}

	retries, err := takeRetryCount(item.ActionType, options, q.defaultRetries)
	if err != nil {
		return nil, err
	}

	// 保留键不转发给处理函数
	forwarded := make(map[string]interface{}, len(options))
	for k, v := range options {
		if k == OptionExecutionID || k == OptionRetryCount {
			continue
		}
		forwarded[k] = v
	}

	return &prepared{
		handler: handler,
		retries: retries,
		record: &Record{
			ExecuteID:  executeID,
			ActionType: item.ActionType,
			Options:    forwarded,
		},
	}, nil
}

// attempt 执行尝试循环，原地更新记录，返回是否成功
func (q *Queue) attempt(handler Handler, rec *Record, retries int) bool {
	total := retries + 1
	for i := 1; i <= total; i++ {
		value, err := handler(rec.Options)
		if err == nil {
			rec.Status = StatusSuccess
			rec.Result = value
			return true
		}

		rec.Status = err.Error()
		rec.Errors = append(rec.Errors, fmt.Sprintf("attempt %d: %v", i, err))
		if i < total {
			q.log.Warn("[Action:%s] 第 %d/%d 次尝试失败: %v", rec.ExecuteID, i, total, err)
		}
	}
	return false
}

// takeExecutionID 从参数中取出调用方指定的执行标识符
func takeExecutionID(actionType string, options map[string]interface{}) (string, error) {
	raw, ok := options[OptionExecutionID]
	if !ok {
		return "", nil
	}
	id, ok := raw.(string)
	if !ok {
		return "", &ParamError{ActionType: actionType,
			Message: fmt.Sprintf("execution_id 应为字符串, 实际为 %T", raw)}
	}
	return id, nil
}

// takeRetryCount 从参数中取出重试次数
// JSON 反序列化产生 float64，直接构造时可能是 int，两者都接受
func takeRetryCount(actionType string, options map[string]interface{}, fallback int) (int, error) {
	raw, ok := options[OptionRetryCount]
	if !ok {
		return fallback, nil
	}

	var n int
	switch v := raw.(type) {
	case int:
		n = v
	case float64:
		n = int(v)
	default:
		return 0, &ParamError{ActionType: actionType,
			Message: fmt.Sprintf("retry_count 应为数字, 实际为 %T", raw)}
	}

	if n < 0 {
		return 0, &ParamError{ActionType: actionType,
			Message: fmt.Sprintf("retry_count 不可为负数: %d", n)}
	}
	return n, nil
}
