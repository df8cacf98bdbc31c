package client

import (
	"fmt"
	"net"
	"strings"
	"time"

	"github.com/x-soft-ua/xAsyncRedis/lib/logger"
	"github.com/x-soft-ua/xAsyncRedis/lib/poll"
	"github.com/x-soft-ua/xAsyncRedis/protocol"
)

// open 依次为每条命令建立连接并写出请求。
// 连接失败的命令立即记为失败，不进入事件循环。
func (b *batch) open(cmds []Command) {
	for i, cmd := range cmds {
		cmd.ID = i
		entry, err := b.connect(cmd)
		if err != nil {
			logger.Debugf("batch %s: command %d to %s: %v", b.id, cmd.ID, cmd.Target, err)
			b.fail(cmd, protocol.ConnectFailedMsg, resultConnectError)
			continue
		}
		b.track(entry)
	}
}

func (b *batch) connect(cmd Command) (*pendingEntry, error) {
	network, address, err := ParseTarget(cmd.Target)
	if err != nil {
		return nil, err
	}
	conn, err := net.DialTimeout(network, address, b.connectTimeout)
	if err != nil {
		return nil, err
	}
	fd, err := poll.FD(conn)
	if err != nil {
		_ = conn.Close()
		return nil, err
	}

	frame := protocol.MakeCommand(cmd.Text)
	logger.Debugf("batch %s: command %d %q -> %s://%s", b.id, cmd.ID, frame.Value(), network, address)

	// 请求帧很小，一次写完
	_ = conn.SetWriteDeadline(time.Now().Add(b.connectTimeout))
	if _, err = conn.Write(frame.ToBytes()); err != nil {
		_ = conn.Close()
		return nil, err
	}

	return &pendingEntry{
		cmd:  cmd,
		conn: conn,
		fd:   fd,
	}, nil
}

// ParseTarget 解析目标地址
//
//	tcp://127.0.0.1:6379      => tcp 127.0.0.1:6379
//	unix:///tmp/redis.sock    => unix /tmp/redis.sock
//	unix:/tmp/redis.sock      => unix /tmp/redis.sock
//	127.0.0.1:6379            => tcp 127.0.0.1:6379
//	/tmp/redis.sock           => unix /tmp/redis.sock
func ParseTarget(target string) (network, address string, err error) {
	target = strings.TrimSpace(target)
	if target == "" {
		return "", "", fmt.Errorf("%w: empty", ErrUnsupportedTarget)
	}
	scheme, rest, ok := strings.Cut(target, "://")
	if !ok {
		if after, found := strings.CutPrefix(target, "unix:"); found {
			scheme, rest = "unix", after
		} else if strings.HasPrefix(target, "/") {
			scheme, rest = "unix", target
		} else {
			scheme, rest = "tcp", target
		}
	}
	switch strings.ToLower(scheme) {
	case "tcp", "tcp4", "tcp6", "unix":
	default:
		return "", "", fmt.Errorf("%w: %s", ErrUnsupportedTarget, target)
	}
	if rest == "" {
		return "", "", fmt.Errorf("%w: %s", ErrUnsupportedTarget, target)
	}
	return strings.ToLower(scheme), rest, nil
}
