package poll

import (
	"errors"
	"net"
	"syscall"
)

var ErrNoFD = errors.New("connection does not expose a file descriptor")

// FD 返回连接底层的文件描述符，连接关闭前一直有效
func FD(conn net.Conn) (int, error) {
	sc, ok := conn.(syscall.Conn)
	if !ok {
		return -1, ErrNoFD
	}
	raw, err := sc.SyscallConn()
	if err != nil {
		return -1, err
	}
	fd := -1
	if err := raw.Control(func(f uintptr) {
		fd = int(f)
	}); err != nil {
		return -1, err
	}
	if fd < 0 {
		return -1, ErrNoFD
	}
	return fd, nil
}
