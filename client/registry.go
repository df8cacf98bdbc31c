package client

import (
	"github.com/x-soft-ua/xAsyncRedis/interface/resp"
	"github.com/x-soft-ua/xAsyncRedis/lib/logger"
	"github.com/x-soft-ua/xAsyncRedis/protocol"
)

// Outcome 一条命令的最终结果。
// 成功时 Value 是回复的值（bool / string / nil / []interface{}），
// 失败时 IsError 为 true，Value 为 nil，ErrMsg 说明原因。
type Outcome struct {
	ID      int
	Command Command
	Reply   resp.Reply
	Value   interface{}
	IsError bool
	ErrMsg  string
}

// 由一条回复生成结果，错误回复和未知类型算失败
func replyOutcome(cmd Command, reply resp.Reply) Outcome {
	o := Outcome{ID: cmd.ID, Command: cmd, Reply: reply}
	if errReply, ok := reply.(protocol.ErrorReply); ok {
		o.IsError = true
		o.ErrMsg, _ = errReply.Value().(string)
		return o
	}
	o.Value = reply.Value()
	return o
}

func failedOutcome(cmd Command, msg string) Outcome {
	return Outcome{ID: cmd.ID, Command: cmd, IsError: true, ErrMsg: msg}
}

// Registry 按命令 ID 保存结果，每个 ID 只应写一次
type Registry struct {
	outcomes []*Outcome
	recorded int
}

func NewRegistry(size int) *Registry {
	return &Registry{
		outcomes: make([]*Outcome, size),
	}
}

// Record 写入结果；同一个 ID 写第二次会覆盖并记错误日志
func (r *Registry) Record(o Outcome) {
	if o.ID < 0 || o.ID >= len(r.outcomes) {
		logger.Errorf("record outcome for unknown id %d", o.ID)
		return
	}
	if r.outcomes[o.ID] != nil {
		logger.Errorf("outcome for id %d recorded twice", o.ID)
	} else {
		r.recorded++
	}
	r.outcomes[o.ID] = &o
}

// 已有结果的命令数
func (r *Registry) Len() int {
	return r.recorded
}

// Results 按提交顺序返回所有已有的结果
func (r *Registry) Results() []Outcome {
	results := make([]Outcome, 0, r.recorded)
	for _, o := range r.outcomes {
		if o != nil {
			results = append(results, *o)
		}
	}
	return results
}
