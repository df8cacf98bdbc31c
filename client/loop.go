package client

import (
	"errors"
	"fmt"
	"os"
	"sort"
	"time"

	"github.com/x-soft-ua/xAsyncRedis/lib/logger"
	"github.com/x-soft-ua/xAsyncRedis/parser"
	"github.com/x-soft-ua/xAsyncRedis/protocol"
)

// run 事件循环：每轮先检查整批超时，再最多等待 pollSlice，处理所有可读的连接。
// 所有命令都有结果或超时后返回 nil；等待就绪出错时返回 ErrPoll。
func (b *batch) run() error {
	for len(b.pending) > 0 {
		elapsed := time.Since(b.start)
		if elapsed > b.deadline {
			b.expire()
			return nil
		}

		wait := min(b.pollSlice, b.deadline-elapsed)
		ready, err := b.poller.Wait(b.fds(), wait)
		if err != nil {
			b.abort(err)
			return fmt.Errorf("%w: %w", ErrPoll, err)
		}
		for _, fd := range ready {
			b.resolve(fd)
		}
	}
	return nil
}

func (b *batch) fds() []int {
	b.fdBuf = b.fdBuf[:0]
	for fd := range b.byFD {
		b.fdBuf = append(b.fdBuf, fd)
	}
	return b.fdBuf
}

// resolve 从就绪的连接读一次；凑齐一条完整回复后记录结果并释放连接，
// 不完整时留在 pending 中等下一次就绪。单次读取最多等待 pollSlice。
func (b *batch) resolve(fd int) {
	id, ok := b.byFD[fd]
	if !ok {
		return
	}
	entry := b.pending[id]

	_ = entry.conn.SetReadDeadline(time.Now().Add(b.pollSlice))
	n, readErr := entry.conn.Read(b.readBuf)
	entry.buf = append(entry.buf, b.readBuf[:n]...)

	size, err := parser.Scan(entry.buf)
	if err != nil {
		b.failRead(entry, err)
		return
	}
	if size > 0 {
		reply, err := parser.ParseOne(entry.buf[:size])
		if err != nil {
			b.failRead(entry, err)
			return
		}
		b.succeed(entry.cmd, reply)
		b.release(entry)
		return
	}
	if readErr == nil || errors.Is(readErr, os.ErrDeadlineExceeded) {
		return
	}

	// 对端已关闭或连接出错，回复不完整
	if _, err = parser.ParseOne(entry.buf); err == nil {
		err = fmt.Errorf("%w: %w", protocol.ErrReadReply, readErr)
	}
	b.failRead(entry, err)
}

func (b *batch) failRead(entry *pendingEntry, err error) {
	logger.Debugf("batch %s: command %d: %v", b.id, entry.cmd.ID, err)
	b.fail(entry.cmd, readFailure(err), resultReadError)
	b.release(entry)
}

func readFailure(err error) string {
	switch {
	case errors.Is(err, protocol.ErrReadBulk):
		return protocol.ReadBulkMsg
	case errors.Is(err, protocol.ErrProtocol):
		return err.Error()
	}
	return protocol.ReadReplyMsg
}

// 整批超时，剩下的命令全部记为超时
func (b *batch) expire() {
	logger.Warnf("batch %s: timed out after %s, %d commands pending", b.id, b.deadline, len(b.pending))
	for _, id := range b.pendingIDs() {
		entry := b.pending[id]
		b.fail(entry.cmd, protocol.TimedOutMsg, resultTimeout)
		b.release(entry)
	}
}

// 等待就绪出错，释放连接，不记录结果
func (b *batch) abort(err error) {
	logger.Errorf("batch %s: poll failed, dropping %d pending commands: %v", b.id, len(b.pending), err)
	for _, id := range b.pendingIDs() {
		b.release(b.pending[id])
	}
}

func (b *batch) pendingIDs() []int {
	ids := make([]int, 0, len(b.pending))
	for id := range b.pending {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	return ids
}
