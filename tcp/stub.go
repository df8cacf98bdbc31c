package tcp

import (
	"bufio"
	"context"
	"errors"
	"io"
	"net"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/x-soft-ua/xAsyncRedis/interface/resp"
	"github.com/x-soft-ua/xAsyncRedis/lib/logger"
	"github.com/x-soft-ua/xAsyncRedis/parser"
	"github.com/x-soft-ua/xAsyncRedis/protocol"
)

// Script 描述收到某个命令之后怎么回复
type Script struct {
	// 回复内容，Raw 优先
	Reply resp.Reply
	Raw   []byte
	// 回复之前等待
	Delay time.Duration
	// 回复之后断开，没有回复内容时直接断开
	Hangup bool
	// 不回复，保持连接直到 handler 关闭
	Silent bool
}

// StubHandler 一个按命令名返回预设回复的 RESP 服务端
// 没有预设的命令：PING 返回 PONG，ECHO 原样返回，其余返回 unknown command
type StubHandler struct {
	activeConn sync.Map
	closing    atomic.Bool
	done       chan struct{}
	closeOnce  sync.Once

	mu       sync.RWMutex
	scripts  map[string]Script
	requests atomic.Int64
}

func MakeStubHandler() *StubHandler {
	return &StubHandler{
		done:    make(chan struct{}),
		scripts: make(map[string]Script),
	}
}

// Script 为命令（不区分大小写）设置回复
func (h *StubHandler) Script(verb string, s Script) {
	h.mu.Lock()
	h.scripts[strings.ToUpper(verb)] = s
	h.mu.Unlock()
}

// 已收到的请求数
func (h *StubHandler) Requests() int64 {
	return h.requests.Load()
}

func (h *StubHandler) Handle(ctx context.Context, conn net.Conn) {
	if h.closing.Load() {
		_ = conn.Close()
		return
	}
	h.activeConn.Store(conn, struct{}{})
	defer func() {
		h.activeConn.Delete(conn)
		_ = conn.Close()
	}()

	reader := bufio.NewReader(conn)
	for {
		// may occurs: client EOF, client timeout, server early close
		req, err := parser.ParseReply(reader)
		if err != nil {
			if !errors.Is(err, io.EOF) && !h.closing.Load() {
				logger.Warn(err)
			}
			return
		}
		h.requests.Add(1)
		args := requestArgs(req)
		if len(args) == 0 {
			_, _ = conn.Write(protocol.MakeErrReply("ERR empty command").ToBytes())
			continue
		}

		script := h.lookup(args)
		if script.Delay > 0 {
			select {
			case <-time.After(script.Delay):
			case <-h.done:
				return
			case <-ctx.Done():
				return
			}
		}
		if script.Silent {
			select {
			case <-h.done:
			case <-ctx.Done():
			}
			return
		}
		payload := script.Raw
		if payload == nil && script.Reply != nil {
			payload = script.Reply.ToBytes()
		}
		if payload != nil {
			if _, err = conn.Write(payload); err != nil {
				return
			}
		}
		if script.Hangup {
			return
		}
	}
}

func (h *StubHandler) lookup(args []string) Script {
	verb := strings.ToUpper(args[0])
	h.mu.RLock()
	script, ok := h.scripts[verb]
	h.mu.RUnlock()
	if ok {
		return script
	}
	switch verb {
	case "PING":
		if len(args) > 1 {
			return Script{Reply: protocol.MakeBulkReply([]byte(args[1]))}
		}
		return Script{Reply: &protocol.PongReply{}}
	case "ECHO":
		if len(args) != 2 {
			return Script{Reply: protocol.MakeArgNumErrReply("echo")}
		}
		return Script{Reply: protocol.MakeBulkReply([]byte(args[1]))}
	}
	return Script{Reply: protocol.MakeErrReply("ERR unknown command '" + args[0] + "'")}
}

// 请求帧是 bulk string 数组
func requestArgs(req resp.Reply) []string {
	values, ok := req.Value().([]interface{})
	if !ok {
		return nil
	}
	args := make([]string, 0, len(values))
	for _, v := range values {
		s, _ := v.(string)
		args = append(args, s)
	}
	return args
}

func (h *StubHandler) Close() error {
	logger.Info("handler shutting down")
	h.closing.Store(true)
	h.closeOnce.Do(func() { close(h.done) })
	// 遍历活跃连接，挨个关闭连接
	h.activeConn.Range(func(key interface{}, val interface{}) bool {
		_ = key.(net.Conn).Close()
		return true
	})
	return nil
}
