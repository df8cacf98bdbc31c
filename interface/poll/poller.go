package poll

import "time"

// Poller 等待一组文件描述符中的任意子集变为可读。
// Wait 最多阻塞 timeout，超时返回空集合；只有就绪原语本身出错时才返回 error。
type Poller interface {
	Wait(fds []int, timeout time.Duration) ([]int, error)
	Close() error
}
