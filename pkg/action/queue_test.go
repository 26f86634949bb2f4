package action

import (
	"errors"
	"fmt"
	"testing"
)

// newTestRegistry 构造带常用测试处理函数的注册表
func newTestRegistry(t *testing.T) *Registry {
	t.Helper()
	r := NewRegistry()

	mustRegister := func(actionType string, h Handler) {
		if err := r.Register(actionType, h); err != nil {
			t.Fatal(err)
		}
	}

	mustRegister("ok", func(options map[string]interface{}) (interface{}, error) {
		return map[string]interface{}{"done": true}, nil
	})
	mustRegister("echo", func(options map[string]interface{}) (interface{}, error) {
		return options, nil
	})
	mustRegister("fail", func(options map[string]interface{}) (interface{}, error) {
		return nil, errors.New("boom")
	})

	return r
}

func TestQueueRunAllSuccess(t *testing.T) {
	q := NewQueue(newTestRegistry(t))

	result, err := q.Run([]Item{
		{ActionType: "ok"},
		{ActionType: "ok"},
	})
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if !result.Completed() {
		t.Errorf("Pending = %+v, want empty", result.Pending)
	}
	if len(result.Ledger) != 2 {
		t.Errorf("台账应有 2 条记录, got %d", len(result.Ledger))
	}
	for id, rec := range result.Ledger {
		if !rec.Succeeded() {
			t.Errorf("记录 %s 状态 = %q, want success", id, rec.Status)
		}
	}
}

func TestQueueExecutionIDFromOptions(t *testing.T) {
	q := NewQueue(newTestRegistry(t))

	result, err := q.Run([]Item{
		{ActionType: "ok", Options: map[string]interface{}{"execution_id": "my-id"}},
	})
	if err != nil {
		t.Fatal(err)
	}

	rec, ok := result.Ledger["my-id"]
	if !ok {
		t.Fatalf("台账缺少指定的执行标识符, got %v", result.Ledger)
	}
	if _, reserved := rec.Options["execution_id"]; reserved {
		t.Error("execution_id 不应转发给处理函数")
	}
}

func TestQueueRetryBound(t *testing.T) {
	attempts := 0
	r := NewRegistry()
	r.Register("always_fail", func(options map[string]interface{}) (interface{}, error) {
		attempts++
		return nil, fmt.Errorf("attempt error %d", attempts)
	})

	q := NewQueue(r)
	result, err := q.Run([]Item{
		{ActionType: "always_fail", Options: map[string]interface{}{
			"execution_id": "f1",
			"retry_count":  2,
		}},
	})
	if err != nil {
		t.Fatalf("非调试模式重试耗尽不应返回错误, got %v", err)
	}

	// retry_count=2 共尝试 3 次，不多不少
	if attempts != 3 {
		t.Errorf("尝试次数 = %d, want 3", attempts)
	}

	rec := result.Ledger["f1"]
	if rec == nil {
		t.Fatal("台账缺少失败记录")
	}
	if rec.Succeeded() {
		t.Error("失败记录不应为 success 状态")
	}
	if len(rec.Errors) != 3 {
		t.Errorf("错误轨迹应有 3 条, got %v", rec.Errors)
	}
	if rec.Errors[0] != "attempt 1: attempt error 1" {
		t.Errorf("错误轨迹未按尝试编号: %q", rec.Errors[0])
	}
}

func TestQueueHaltPreservesPending(t *testing.T) {
	secondRan := false
	r := NewRegistry()
	r.Register("fail", func(options map[string]interface{}) (interface{}, error) {
		return nil, errors.New("boom")
	})
	r.Register("second", func(options map[string]interface{}) (interface{}, error) {
		secondRan = true
		return nil, nil
	})

	q := NewQueue(r, WithDefaultRetries(2))
	failing := Item{ActionType: "fail", Options: map[string]interface{}{"execution_id": "f1"}}
	second := Item{ActionType: "second"}

	result, err := q.Run([]Item{failing, second})
	if err != nil {
		t.Fatal(err)
	}

	if secondRan {
		t.Error("停机后不应执行后续操作")
	}
	if len(result.Pending) != 2 {
		t.Fatalf("Pending = %+v, want 2 项", result.Pending)
	}
	// 失败操作被重新插入头部
	if result.Pending[0].ActionType != "fail" || result.Pending[1].ActionType != "second" {
		t.Errorf("Pending 顺序错误: %+v", result.Pending)
	}
	if len(result.Ledger) != 1 {
		t.Errorf("台账应只有失败操作的记录, got %d 条", len(result.Ledger))
	}
}

func TestQueueResumeReproducesLedger(t *testing.T) {
	// 处理函数前两次失败后成功，模拟瞬时故障
	failures := 0
	r := NewRegistry()
	r.Register("flaky", func(options map[string]interface{}) (interface{}, error) {
		if failures < 5 {
			failures++
			return nil, errors.New("transient")
		}
		return "recovered", nil
	})
	r.Register("ok", func(options map[string]interface{}) (interface{}, error) {
		return "fine", nil
	})

	q := NewQueue(r, WithDefaultRetries(1)) // 每次运行尝试 2 次
	items := []Item{
		{ActionType: "flaky", Options: map[string]interface{}{"execution_id": "a"}},
		{ActionType: "ok", Options: map[string]interface{}{"execution_id": "b"}},
	}

	// 第一次运行: flaky 失败 2 次后停机
	result, err := q.Run(items)
	if err != nil {
		t.Fatal(err)
	}
	if result.Completed() {
		t.Fatal("第一次运行应停机")
	}

	// 用返回的 Pending 恢复执行直至完成
	ledgers := []map[string]*Record{result.Ledger}
	pending := result.Pending
	for i := 0; i < 5 && len(pending) > 0; i++ {
		result, err = q.Run(pending)
		if err != nil {
			t.Fatal(err)
		}
		ledgers = append(ledgers, result.Ledger)
		pending = result.Pending
	}

	if len(pending) != 0 {
		t.Fatalf("恢复执行后仍有剩余操作: %+v", pending)
	}

	// 最终台账应包含两个操作的成功记录
	final := ledgers[len(ledgers)-1]
	recA, okA := final["a"]
	if !okA || !recA.Succeeded() || recA.Result != "recovered" {
		t.Errorf("恢复后 a 记录错误: %+v", recA)
	}
	recB, okB := final["b"]
	if !okB || !recB.Succeeded() {
		t.Errorf("恢复后 b 记录错误: %+v", recB)
	}
}

func TestQueueDebugPropagatesImmediately(t *testing.T) {
	q := NewQueue(newTestRegistry(t), WithDebug(true))

	result, err := q.Run([]Item{
		{ActionType: "fail", Options: map[string]interface{}{"retry_count": 1}},
	})
	if err == nil {
		t.Fatal("调试模式下重试耗尽应返回错误")
	}
	if len(result.Pending) != 1 {
		t.Errorf("调试模式错误仍应保留检查点, Pending = %+v", result.Pending)
	}
}

func TestQueueUnknownActionNotRetried(t *testing.T) {
	calls := 0
	r := NewRegistry()
	r.Register("counter", func(options map[string]interface{}) (interface{}, error) {
		calls++
		return nil, nil
	})

	q := NewQueue(r)
	result, err := q.Run([]Item{
		{ActionType: "missing"},
		{ActionType: "counter"},
	})

	var unknown *UnknownActionError
	if !errors.As(err, &unknown) {
		t.Fatalf("未知操作类型应立即返回 UnknownActionError, got %v", err)
	}
	if calls != 0 {
		t.Error("配置错误后不应执行后续操作")
	}
	if len(result.Pending) != 2 || result.Pending[0].ActionType != "missing" {
		t.Errorf("配置错误也应保持检查点不变式, Pending = %+v", result.Pending)
	}
}

func TestQueueBadReservedOptionTypes(t *testing.T) {
	q := NewQueue(newTestRegistry(t))

	tests := []struct {
		name    string
		options map[string]interface{}
	}{
		{"retry_count wrong type", map[string]interface{}{"retry_count": "three"}},
		{"retry_count negative", map[string]interface{}{"retry_count": -1}},
		{"execution_id wrong type", map[string]interface{}{"execution_id": 42}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := q.Run([]Item{{ActionType: "ok", Options: tt.options}})
			var param *ParamError
			if !errors.As(err, &param) {
				t.Errorf("应返回 ParamError, got %v", err)
			}
		})
	}
}

func TestQueueRetryCountFromJSONNumber(t *testing.T) {
	attempts := 0
	r := NewRegistry()
	r.Register("fail", func(options map[string]interface{}) (interface{}, error) {
		attempts++
		return nil, errors.New("boom")
	})

	q := NewQueue(r)
	// JSON 反序列化产生 float64
	_, err := q.Run([]Item{
		{ActionType: "fail", Options: map[string]interface{}{"retry_count": float64(0)}},
	})
	if err != nil {
		t.Fatal(err)
	}
	if attempts != 1 {
		t.Errorf("retry_count=0 应只尝试 1 次, got %d", attempts)
	}
}

func TestQueueOptionsForwardedWithoutReservedKeys(t *testing.T) {
	q := NewQueue(newTestRegistry(t))

	result, err := q.Run([]Item{
		{ActionType: "echo", Options: map[string]interface{}{
			"execution_id": "e1",
			"retry_count":  1,
			"text":         "hello",
		}},
	})
	if err != nil {
		t.Fatal(err)
	}

	rec := result.Ledger["e1"]
	forwarded, ok := rec.Result.(map[string]interface{})
	if !ok {
		t.Fatalf("echo 结果类型错误: %T", rec.Result)
	}
	if forwarded["text"] != "hello" {
		t.Errorf("业务参数丢失: %+v", forwarded)
	}
	if _, has := forwarded["retry_count"]; has {
		t.Error("retry_count 不应转发给处理函数")
	}
	if _, has := forwarded["execution_id"]; has {
		t.Error("execution_id 不应转发给处理函数")
	}
}

func TestRunSingle(t *testing.T) {
	q := NewQueue(newTestRegistry(t))

	rec, err := q.RunSingle(Item{ActionType: "ok"})
	if err != nil {
		t.Fatalf("RunSingle() error = %v", err)
	}
	if !rec.Succeeded() {
		t.Errorf("Status = %q, want success", rec.Status)
	}
	if rec.ExecuteID == "" {
		t.Error("未生成执行标识符")
	}
}

func TestResultGet(t *testing.T) {
	q := NewQueue(newTestRegistry(t))

	result, err := q.Run([]Item{
		{ActionType: "ok", Options: map[string]interface{}{"execution_id": "r1"}},
	})
	if err != nil {
		t.Fatal(err)
	}

	// 整条记录
	raw, err := result.Get("r1", "")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if rec, ok := raw.(*Record); !ok || rec.ExecuteID != "r1" {
		t.Errorf("Get() = %+v, want 记录 r1", raw)
	}

	// 顶层字段
	status, err := result.Get("r1", "status")
	if err != nil || status != StatusSuccess {
		t.Errorf("Get(status) = %v, %v", status, err)
	}

	// 嵌套路径
	done, err := result.Get("r1", "result.done")
	if err != nil || done != true {
		t.Errorf("Get(result.done) = %v, %v", done, err)
	}

	// 不存在的执行标识符
	_, err = result.Get("nope", "")
	var notFound *NotFoundError
	if !errors.As(err, &notFound) {
		t.Errorf("缺失标识符应返回 NotFoundError, got %v", err)
	}

	// 不存在的嵌套键
	_, err = result.Get("r1", "result.missing")
	if !errors.As(err, &notFound) {
		t.Errorf("缺失键路径应返回 NotFoundError, got %v", err)
	}

	// 不存在的顶层字段
	if _, err = result.Get("r1", "bogus"); !errors.As(err, &notFound) {
		t.Errorf("非法顶层字段应返回 NotFoundError, got %v", err)
	}
}
