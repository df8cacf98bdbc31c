// Client 把一批互相独立的命令分别发到各自的目标地址，
// 每条命令一个新连接，所有连接由同一个循环按就绪事件处理，整批共用一个超时。
package client

/*
+------------------+
|   Do(commands)   |
+--------+---------+
         |
         v
+------------------+     +------------------+
|  open (逐个连接)  | --> |  写入请求帧        | --> Redis Server
|  失败直接记结果    |     |  登记 pending      |
+------------------+     +--------+---------+
                                   |
                                   v
+------------------+     +------------------+
|  run (事件循环)   | <-- |  poll 10ms 一次    |
|  检查整批超时      |     |  返回可读的 fd     |
+--------+---------+     +------------------+
         |
         v
+------------------+
|  ParseReply      | --> registry（按提交顺序返回）
+------------------+
*/

import (
	"fmt"
	"time"

	"github.com/x-soft-ua/xAsyncRedis/config"
	ipoll "github.com/x-soft-ua/xAsyncRedis/interface/poll"
	"github.com/x-soft-ua/xAsyncRedis/lib/logger"
	"github.com/x-soft-ua/xAsyncRedis/lib/poll"
)

// Command 一条命令和它的目标地址，ID 是它在批次中的位置
type Command struct {
	ID     int
	Text   string
	Target string
}

// MakeCommands 由 (命令, 地址) 构造一批命令
func MakeCommands(pairs ...[2]string) []Command {
	cmds := make([]Command, len(pairs))
	for i, p := range pairs {
		cmds[i] = Command{ID: i, Text: p[0], Target: p[1]}
	}
	return cmds
}

// Client 只保存配置，每次 Do 都是全新的连接和状态。
// SetTimeout 不能和 Do 并发调用。
type Client struct {
	timeout        time.Duration
	connectTimeout time.Duration
	pollSlice      time.Duration
	newPoller      func() (ipoll.Poller, error)
	metrics        *Metrics
}

type Option func(*Client)

// 整批的超时
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.timeout = d
		}
	}
}

// 单个连接的建连超时
func WithConnectTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.connectTimeout = d
		}
	}
}

// 每次等待就绪的最长时间，决定检查超时的粒度
func WithPollSlice(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.pollSlice = d
		}
	}
}

func WithPoller(newPoller func() (ipoll.Poller, error)) Option {
	return func(c *Client) {
		c.newPoller = newPoller
	}
}

func WithMetrics(m *Metrics) Option {
	return func(c *Client) {
		c.metrics = m
	}
}

func WithProperties(p config.ClientProperties) Option {
	return func(c *Client) {
		WithTimeout(p.TimeoutDuration())(c)
		WithConnectTimeout(p.ConnectTimeoutDuration())(c)
		WithPollSlice(p.PollSliceDuration())(c)
	}
}

func NewClient(opts ...Option) *Client {
	defaults := config.Default()
	c := &Client{
		timeout:        defaults.TimeoutDuration(),
		connectTimeout: defaults.ConnectTimeoutDuration(),
		pollSlice:      defaults.PollSliceDuration(),
		newPoller:      poll.NewPoller,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// SetTimeout 设置整批超时（毫秒），接受数字或数字字符串。
// 非数字或非正数返回 ErrInvalidTimeout，原来的超时不变。
func (c *Client) SetTimeout(ms interface{}) (time.Duration, error) {
	d, err := config.CoerceMillis(ms)
	if err != nil {
		return c.timeout, fmt.Errorf("set timeout %v: %w", ms, err)
	}
	c.timeout = d
	return d, nil
}

func (c *Client) Timeout() time.Duration {
	return c.timeout
}

// Do 执行一批命令，返回的结果按提交顺序排列，ID 等于命令在 cmds 中的下标。
//
// 单条命令的失败（连不上、读失败、错误回复、超时）都记录在 Outcome 里；
// 只有等待就绪本身出错时返回 ErrPoll，此时只包含出错前已经有结果的命令。
func (c *Client) Do(cmds []Command) ([]Outcome, error) {
	p, err := c.newPoller()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrPoll, err)
	}
	defer p.Close()

	b := newBatch(c, p, len(cmds))
	logger.Debugf("batch %s: %d commands, timeout %s", b.id, len(cmds), c.timeout)

	b.open(cmds)
	err = b.run()
	c.metrics.observeBatch(len(cmds), time.Since(b.start))

	logger.Debugf("batch %s: %d/%d resolved in %s", b.id, b.registry.Len(), len(cmds), time.Since(b.start))
	return b.registry.Results(), err
}
