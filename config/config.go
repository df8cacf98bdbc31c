package config

import (
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"
	"time"

	toml "github.com/pelletier/go-toml/v2"
	"github.com/spf13/cast"
)

// 默认值，单位毫秒
const (
	DefaultTimeout        = 1000
	DefaultConnectTimeout = 1000
	DefaultPollSlice      = 10
	EnvPrefix             = "XASYNCREDIS_"
)

var ErrInvalidTimeout = errors.New("timeout must be a positive number of milliseconds")

// ClientProperties 一次批量请求的配置，时间都是毫秒
type ClientProperties struct {
	Timeout        int    `toml:"timeout"`
	ConnectTimeout int    `toml:"connect_timeout"`
	PollSlice      int    `toml:"poll_slice"`
	LogLevel       string `toml:"log_level"`
	LogDir         string `toml:"log_dir"`
	MetricsFile    string `toml:"metrics_file"`
}

var Properties = Default()

func Default() ClientProperties {
	return ClientProperties{
		Timeout:        DefaultTimeout,
		ConnectTimeout: DefaultConnectTimeout,
		PollSlice:      DefaultPollSlice,
		LogLevel:       "info",
	}
}

// DefaultConfigPath 返回 ~/.xasyncredis/config.toml
func DefaultConfigPath() string {
	if h, err := os.UserHomeDir(); err == nil {
		return filepath.Join(h, ".xasyncredis", "config.toml")
	}
	return ""
}

func FileExists(p string) bool {
	_, err := os.Stat(p)
	return err == nil
}

// LoadFile 在默认值之上读取 TOML 文件，文件中没有的字段保持默认值
func LoadFile(path string) (ClientProperties, error) {
	props := Default()
	b, err := os.ReadFile(path)
	if err != nil {
		return props, err
	}
	if err := toml.Unmarshal(b, &props); err != nil {
		return props, fmt.Errorf("parse %s: %w", path, err)
	}
	return props, nil
}

// ApplyEnv 用 XASYNCREDIS_* 环境变量覆盖配置
func (p *ClientProperties) ApplyEnv(lookup func(string) (string, bool)) error {
	ms := map[string]*int{
		"TIMEOUT":         &p.Timeout,
		"CONNECT_TIMEOUT": &p.ConnectTimeout,
		"POLL_SLICE":      &p.PollSlice,
	}
	for name, dst := range ms {
		value, ok := lookup(EnvPrefix + name)
		if !ok || value == "" {
			continue
		}
		d, err := CoerceMillis(value)
		if err != nil {
			return fmt.Errorf("%s%s: %w", EnvPrefix, name, err)
		}
		*dst = int(d / time.Millisecond)
	}
	strs := map[string]*string{
		"LOG_LEVEL":    &p.LogLevel,
		"LOG_DIR":      &p.LogDir,
		"METRICS_FILE": &p.MetricsFile,
	}
	for name, dst := range strs {
		if value, ok := lookup(EnvPrefix + name); ok && value != "" {
			*dst = value
		}
	}
	return nil
}

func (p *ClientProperties) Validate() error {
	if p.Timeout <= 0 {
		return fmt.Errorf("timeout: %w", ErrInvalidTimeout)
	}
	if p.ConnectTimeout <= 0 {
		return fmt.Errorf("connect timeout: %w", ErrInvalidTimeout)
	}
	if p.PollSlice <= 0 {
		return fmt.Errorf("poll slice: %w", ErrInvalidTimeout)
	}
	return nil
}

func (p *ClientProperties) TimeoutDuration() time.Duration {
	return time.Duration(p.Timeout) * time.Millisecond
}

func (p *ClientProperties) ConnectTimeoutDuration() time.Duration {
	return time.Duration(p.ConnectTimeout) * time.Millisecond
}

func (p *ClientProperties) PollSliceDuration() time.Duration {
	return time.Duration(p.PollSlice) * time.Millisecond
}

// CoerceMillis 把数字或数字字符串（毫秒）转换为 time.Duration
// 非数字、非正数都返回 ErrInvalidTimeout
func CoerceMillis(v interface{}) (time.Duration, error) {
	switch t := v.(type) {
	case nil, bool:
		return 0, ErrInvalidTimeout
	case string:
		if strings.TrimSpace(t) == "" {
			return 0, ErrInvalidTimeout
		}
		v = strings.TrimSpace(t)
	case time.Duration:
		if t > 0 {
			return t, nil
		}
		return 0, ErrInvalidTimeout
	}
	ms, err := cast.ToFloat64E(v)
	if err != nil || math.IsNaN(ms) || math.IsInf(ms, 0) || ms <= 0 {
		return 0, ErrInvalidTimeout
	}
	d := time.Duration(ms * float64(time.Millisecond))
	if d <= 0 {
		return 0, ErrInvalidTimeout
	}
	return d, nil
}
