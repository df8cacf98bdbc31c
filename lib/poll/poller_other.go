//go:build !(linux || darwin || freebsd || netbsd || openbsd || dragonfly)

package poll

import (
	"errors"

	ipoll "github.com/x-soft-ua/xAsyncRedis/interface/poll"
)

func NewPoller() (ipoll.Poller, error) {
	return nil, errors.ErrUnsupported
}
