package tcp

import (
	"context"
	"net"
)

// Handler 处理一条 tcp 连接
type Handler interface {
	Handle(ctx context.Context, conn net.Conn)
	Close() error
}
