package logger

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

type LogLevel int

type ILogger interface {
	OUTPUT(level LogLevel, callerDepth int, msg string)
}

const defaultCallerDepth = 2

const (
	DEBUG LogLevel = iota
	INFO
	WARNING
	ERROR
	FATAL
)

var levelFlags = []string{"DEBUG", "INFO", "WARNING", "ERROR", "FATAL"}

var zerologLevels = []zerolog.Level{
	zerolog.DebugLevel,
	zerolog.InfoLevel,
	zerolog.WarnLevel,
	zerolog.ErrorLevel,
	zerolog.FatalLevel,
}

func (l LogLevel) String() string {
	if l < DEBUG || l > FATAL {
		return "UNKNOWN"
	}
	return levelFlags[l]
}

// ParseLevel 解析 debug / info / warn / error / fatal
func ParseLevel(name string) (LogLevel, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "debug":
		return DEBUG, nil
	case "", "info":
		return INFO, nil
	case "warn", "warning":
		return WARNING, nil
	case "error":
		return ERROR, nil
	case "fatal":
		return FATAL, nil
	}
	return INFO, fmt.Errorf("unknown log level %q", name)
}

// Logger 基于 zerolog，FATAL 只记录不退出进程
type Logger struct {
	mu     sync.Mutex
	logger zerolog.Logger
	closer io.Closer
}

var DefaultLogger ILogger = NewStdoutLogger()

// 定向到标准错误输出
func NewStdoutLogger() *Logger {
	return NewLogger(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
}

// 写到任意 io.Writer，测试里用 bytes.Buffer
func NewLogger(w io.Writer) *Logger {
	return &Logger{
		logger: zerolog.New(w).With().Timestamp().Logger(),
	}
}

// 用于文件形式存储的日志，包含路径/名称/时间/扩展名
type Settings struct {
	Path       string
	Name       string
	Ext        string
	TimeFormat string
}

// 文件存储日志，同时输出到控制台；文件名按 TimeFormat 自动滚动
func NewFileLogger(settings *Settings) (*Logger, error) {
	rw := &rollingFile{settings: settings}
	if err := rw.rotate(time.Now()); err != nil {
		return nil, fmt.Errorf("logging.Join err:%s", err)
	}
	console := zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}
	logger := NewLogger(zerolog.MultiLevelWriter(console, rw))
	logger.closer = rw
	return logger, nil
}

func Setup(settings *Settings) {
	logger, err := NewFileLogger(settings)
	if err != nil {
		panic(err)
	}
	DefaultLogger = logger
}

// 设置默认 logger 的最低级别
func SetLevel(level LogLevel) {
	if l, ok := DefaultLogger.(*Logger); ok {
		l.SetLevel(level)
	}
}

func (logger *Logger) SetLevel(level LogLevel) {
	logger.mu.Lock()
	logger.logger = logger.logger.Level(zerologLevels[level])
	logger.mu.Unlock()
}

func (logger *Logger) Close() error {
	if logger.closer == nil {
		return nil
	}
	return logger.closer.Close()
}

func (logger *Logger) OUTPUT(level LogLevel, callerDepth int, msg string) {
	if level < DEBUG || level > FATAL {
		level = INFO
	}
	logger.mu.Lock()
	zl := logger.logger
	logger.mu.Unlock()

	// WithLevel 不会像 Fatal() 一样退出进程
	event := zl.WithLevel(zerologLevels[level])
	// 获取调用栈信息，用于在日志中显示 哪一行代码打印了这条日志
	if _, file, line, ok := runtime.Caller(callerDepth); ok {
		event = event.Str("caller", fmt.Sprintf("%s:%d", filepath.Base(file), line))
	}
	event.Msg(strings.TrimSuffix(msg, "\n"))
}

type rollingFile struct {
	mu       sync.Mutex
	settings *Settings
	file     *os.File
	name     string
}

func (w *rollingFile) fileName(now time.Time) string {
	return filepath.Join(w.settings.Path, fmt.Sprintf("%s-%s.%s",
		w.settings.Name,
		now.Format(w.settings.TimeFormat),
		w.settings.Ext,
	))
}

func (w *rollingFile) rotate(now time.Time) error {
	name := w.fileName(now)
	if w.file != nil && name == w.name {
		return nil
	}
	if err := os.MkdirAll(w.settings.Path, 0755); err != nil {
		return err
	}
	f, err := os.OpenFile(name, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return err
	}
	if w.file != nil {
		_ = w.file.Close()
	}
	w.file = f
	w.name = name
	return nil
}

func (w *rollingFile) Write(p []byte) (int, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	// 按时间自动滚动日志
	if err := w.rotate(time.Now()); err != nil {
		return 0, err
	}
	return w.file.Write(p)
}

func (w *rollingFile) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.file == nil {
		return nil
	}
	err := w.file.Close()
	w.file = nil
	return err
}

func Debug(v ...interface{}) {
	msg := fmt.Sprintln(v...)
	DefaultLogger.OUTPUT(DEBUG, defaultCallerDepth, msg)
}

func Debugf(format string, v ...interface{}) {
	msg := fmt.Sprintf(format, v...)
	DefaultLogger.OUTPUT(DEBUG, defaultCallerDepth, msg)
}

func Info(v ...interface{}) {
	msg := fmt.Sprintln(v...)
	DefaultLogger.OUTPUT(INFO, defaultCallerDepth, msg)
}

func Infof(format string, v ...interface{}) {
	msg := fmt.Sprintf(format, v...)
	DefaultLogger.OUTPUT(INFO, defaultCallerDepth, msg)
}

func Warn(v ...interface{}) {
	msg := fmt.Sprintln(v...)
	DefaultLogger.OUTPUT(WARNING, defaultCallerDepth, msg)
}

func Warnf(format string, v ...interface{}) {
	msg := fmt.Sprintf(format, v...)
	DefaultLogger.OUTPUT(WARNING, defaultCallerDepth, msg)
}

func Error(v ...interface{}) {
	msg := fmt.Sprintln(v...)
	DefaultLogger.OUTPUT(ERROR, defaultCallerDepth, msg)
}

func Errorf(format string, v ...interface{}) {
	msg := fmt.Sprintf(format, v...)
	DefaultLogger.OUTPUT(ERROR, defaultCallerDepth, msg)
}

func Fatal(v ...interface{}) {
	msg := fmt.Sprintln(v...)
	DefaultLogger.OUTPUT(FATAL, defaultCallerDepth, msg)
}
