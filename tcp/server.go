package tcp

import (
	"context"
	"errors"
	"net"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/x-soft-ua/xAsyncRedis/interface/tcp"
	"github.com/x-soft-ua/xAsyncRedis/lib/logger"
)

type Config struct {
	Address string
	// tcp 或 unix
	Network string
}

func ListenAndServeWithSignal(cfg *Config, handler tcp.Handler) error {
	closeChan := make(chan struct{})
	sigCh := make(chan os.Signal, 1)
	// 监听操作系统信号，实现优雅关闭
	signal.Notify(sigCh, syscall.SIGHUP, syscall.SIGQUIT, syscall.SIGTERM, syscall.SIGINT)
	defer signal.Stop(sigCh)

	go func() {
		<-sigCh
		close(closeChan)
	}()

	network := cfg.Network
	if network == "" {
		network = "tcp"
	}
	listener, err := net.Listen(network, cfg.Address)
	if err != nil {
		return err
	}

	logger.Infof("bind: %s://%s, start listening...", network, cfg.Address)
	ListenAndServe(listener, handler, closeChan)
	return nil
}

// ListenAndServe 每个连接一个 goroutine，closeChan 关闭或 Accept 出错后返回
func ListenAndServe(listener net.Listener, handler tcp.Handler, closeChan <-chan struct{}) {
	done := make(chan struct{})
	defer close(done)

	var once sync.Once
	shutdown := func() {
		logger.Info("shutting down...")
		_ = listener.Close()
		_ = handler.Close()
	}
	go func() {
		select {
		case <-closeChan:
			logger.Info("get exit signal")
			once.Do(shutdown)
		case <-done:
		}
	}()

	ctx := context.Background()
	var waitDone sync.WaitGroup

	for {
		conn, err := listener.Accept()
		if err != nil {
			// 如果是超时错误，重新尝试
			var ne net.Error
			if errors.As(err, &ne) && ne.Timeout() {
				logger.Infof("accept occurs timeout error: %v", err)
				time.Sleep(5 * time.Millisecond)
				continue
			}
			if !errors.Is(err, net.ErrClosed) {
				logger.Infof("accept error: %s", err.Error())
			}
			break
		}
		logger.Debugf("accept link from %s", conn.RemoteAddr())
		waitDone.Add(1)
		go func() {
			defer waitDone.Done()
			handler.Handle(ctx, conn)
		}()
	}
	once.Do(shutdown)
	waitDone.Wait()
}
