package client

import (
	"errors"

	"github.com/x-soft-ua/xAsyncRedis/config"
)

var (
	// 等待就绪的系统调用出错，整批中止
	ErrPoll = errors.New("readiness wait failed")

	ErrInvalidTimeout = config.ErrInvalidTimeout

	ErrUnsupportedTarget = errors.New("unsupported target address")
)
