//go:build linux || darwin || freebsd || netbsd || openbsd || dragonfly

package poll

import (
	"errors"
	"time"

	"golang.org/x/sys/unix"

	ipoll "github.com/x-soft-ua/xAsyncRedis/interface/poll"
)

// 挂断、出错也算可读，读的时候会得到具体错误
const readyEvents = unix.POLLIN | unix.POLLHUP | unix.POLLERR | unix.POLLNVAL

// UnixPoller 基于 poll(2)，不持有任何描述符
type UnixPoller struct {
	fds []unix.PollFd
}

func NewPoller() (ipoll.Poller, error) {
	return &UnixPoller{}, nil
}

func (p *UnixPoller) Wait(fds []int, timeout time.Duration) ([]int, error) {
	p.fds = p.fds[:0]
	for _, fd := range fds {
		p.fds = append(p.fds, unix.PollFd{Fd: int32(fd), Events: unix.POLLIN})
	}

	n, err := unix.Poll(p.fds, toMillis(timeout))
	if err != nil {
		// 被信号打断，当作一次空的唤醒
		if errors.Is(err, unix.EINTR) {
			return nil, nil
		}
		return nil, err
	}
	if n == 0 {
		return nil, nil
	}
	ready := make([]int, 0, n)
	for _, pfd := range p.fds {
		if pfd.Revents&readyEvents != 0 {
			ready = append(ready, int(pfd.Fd))
		}
	}
	return ready, nil
}

func (p *UnixPoller) Close() error {
	p.fds = nil
	return nil
}

// 不足 1ms 的正数按 1ms 算，避免变成忙等
func toMillis(timeout time.Duration) int {
	if timeout <= 0 {
		return 0
	}
	ms := int(timeout / time.Millisecond)
	if ms == 0 {
		return 1
	}
	return ms
}
