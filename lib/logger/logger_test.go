package logger

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func captureDefault(t *testing.T) *bytes.Buffer {
	t.Helper()
	buf := &bytes.Buffer{}
	prev := DefaultLogger
	DefaultLogger = NewLogger(buf)
	t.Cleanup(func() { DefaultLogger = prev })
	return buf
}

// TestLoggerLevels 检查级别和调用位置
func TestLoggerLevels(t *testing.T) {
	buf := captureDefault(t)

	Debug("debug message")
	Infof("info %d", 1)
	Warn("warning message")
	Errorf("error %s", "message")
	Fatal("fatal message")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 5 {
		t.Fatalf("expected 5 lines, actually %d: %s", len(lines), buf.String())
	}
	expected := []struct{ level, msg string }{
		{"debug", "debug message"},
		{"info", "info 1"},
		{"warn", "warning message"},
		{"error", "error message"},
		{"fatal", "fatal message"},
	}
	for i, line := range lines {
		var entry map[string]interface{}
		if err := json.Unmarshal([]byte(line), &entry); err != nil {
			t.Fatalf("line %d is not json: %v", i, err)
		}
		if entry["level"] != expected[i].level || entry["message"] != expected[i].msg {
			t.Errorf("expected %v, actually %v", expected[i], entry)
		}
		if caller, _ := entry["caller"].(string); !strings.HasPrefix(caller, "logger_test.go:") {
			t.Errorf("unexpected caller %v", entry["caller"])
		}
	}
}

func TestLoggerSetLevel(t *testing.T) {
	buf := captureDefault(t)
	SetLevel(WARNING)

	Info("dropped")
	Warn("kept")

	if strings.Contains(buf.String(), "dropped") {
		t.Error("info message should be filtered")
	}
	if !strings.Contains(buf.String(), "kept") {
		t.Error("warn message should be written")
	}
}

func TestParseLevel(t *testing.T) {
	for name, want := range map[string]LogLevel{"debug": DEBUG, "INFO": INFO, "warn": WARNING, "error": ERROR, "": INFO} {
		got, err := ParseLevel(name)
		if err != nil || got != want {
			t.Errorf("ParseLevel(%q) = %v, %v", name, got, err)
		}
	}
	if _, err := ParseLevel("verbose"); err == nil {
		t.Error("expected error for unknown level")
	}
}

// TestFileLogger 日志同时写入文件
func TestFileLogger(t *testing.T) {
	dir := t.TempDir()
	logger, err := NewFileLogger(&Settings{
		Path:       dir,
		Name:       "test",
		Ext:        "log",
		TimeFormat: "2006-01-02",
	})
	if err != nil {
		t.Fatal(err)
	}
	logger.OUTPUT(INFO, 1, "written to file")
	if err := logger.Close(); err != nil {
		t.Fatal(err)
	}

	files, _ := filepath.Glob(filepath.Join(dir, "test-*.log"))
	if len(files) != 1 {
		t.Fatalf("expected one log file, actually %v", files)
	}
	content, err := os.ReadFile(files[0])
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Contains(content, []byte("written to file")) {
		t.Errorf("log file missing message: %s", content)
	}
}
