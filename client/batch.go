package client

import (
	"net"
	"time"

	"github.com/google/uuid"

	ipoll "github.com/x-soft-ua/xAsyncRedis/interface/poll"
	"github.com/x-soft-ua/xAsyncRedis/interface/resp"
)

// 已经写出请求、等待回复的命令，只属于事件循环
type pendingEntry struct {
	cmd  Command
	conn net.Conn
	fd   int
	// 已收到但还不构成完整回复的数据
	buf []byte
}

// batch 一次 Do 的全部状态，只在调用 Do 的 goroutine 里使用
type batch struct {
	id             string
	start          time.Time
	deadline       time.Duration
	connectTimeout time.Duration
	pollSlice      time.Duration

	// id -> entry, fd -> id
	pending map[int]*pendingEntry
	byFD    map[int]int
	fdBuf   []int
	readBuf []byte

	registry *Registry
	poller   ipoll.Poller
	metrics  *Metrics
}

// 每次从就绪连接读取的上限
const readChunk = 64 << 10

func newBatch(c *Client, p ipoll.Poller, size int) *batch {
	return &batch{
		id:             uuid.NewString(),
		start:          time.Now(),
		deadline:       c.timeout,
		connectTimeout: c.connectTimeout,
		pollSlice:      c.pollSlice,
		pending:        make(map[int]*pendingEntry, size),
		byFD:           make(map[int]int, size),
		readBuf:        make([]byte, readChunk),
		registry:       NewRegistry(size),
		poller:         p,
		metrics:        c.metrics,
	}
}

func (b *batch) track(entry *pendingEntry) {
	b.pending[entry.cmd.ID] = entry
	b.byFD[entry.fd] = entry.cmd.ID
}

// 从 pending 中移除，关闭写端后释放连接
func (b *batch) release(entry *pendingEntry) {
	delete(b.pending, entry.cmd.ID)
	delete(b.byFD, entry.fd)
	if cw, ok := entry.conn.(interface{ CloseWrite() error }); ok {
		_ = cw.CloseWrite()
	}
	_ = entry.conn.Close()
}

func (b *batch) succeed(cmd Command, reply resp.Reply) {
	o := replyOutcome(cmd, reply)
	if o.IsError {
		b.metrics.observeOutcome(resultReplyError)
	} else {
		b.metrics.observeOutcome(resultOK)
	}
	b.registry.Record(o)
}

func (b *batch) fail(cmd Command, msg string, result string) {
	b.metrics.observeOutcome(result)
	b.registry.Record(failedOutcome(cmd, msg))
}
