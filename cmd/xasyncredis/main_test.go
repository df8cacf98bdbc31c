package main

import (
	"bytes"
	"encoding/json"
	"net"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/x-soft-ua/xAsyncRedis/client"
	"github.com/x-soft-ua/xAsyncRedis/config"
	"github.com/x-soft-ua/xAsyncRedis/tcp"
)

func TestReadCommands(t *testing.T) {
	input := strings.Join([]string{
		"# comment",
		"",
		"tcp://127.0.0.1:6379 SET foo \"bar baz\"",
		"  unix:///tmp/redis.sock\tGET foo  ",
		"127.0.0.1:6380 PING",
	}, "\n")
	cmds, err := readCommands(strings.NewReader(input))
	require.NoError(t, err)
	require.Equal(t, []client.Command{
		{ID: 0, Target: "tcp://127.0.0.1:6379", Text: `SET foo "bar baz"`},
		{ID: 1, Target: "unix:///tmp/redis.sock", Text: "GET foo"},
		{ID: 2, Target: "127.0.0.1:6380", Text: "PING"},
	}, cmds)
}

func TestReadCommandsMissingCommand(t *testing.T) {
	_, err := readCommands(strings.NewReader("tcp://127.0.0.1:6379 PING\ntcp://127.0.0.1:6379\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "line 2")
}

func TestWriteResults(t *testing.T) {
	results := []client.Outcome{
		{ID: 0, Command: client.Command{Target: "a:1", Text: "PING"}, Value: true},
		{ID: 1, Command: client.Command{Target: "b:1", Text: "GET x"}, IsError: true, ErrMsg: "connection timed out"},
	}
	var buf bytes.Buffer
	require.NoError(t, writeResults(&buf, results))
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)

	var first, second resultLine
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &first))
	require.NoError(t, json.Unmarshal([]byte(lines[1]), &second))
	assert.Equal(t, true, first.Value)
	assert.False(t, first.IsError)
	assert.NotContains(t, lines[0], `"error"`)
	assert.Equal(t, 1, second.ID)
	assert.True(t, second.IsError)
	assert.Nil(t, second.Value)
	assert.Equal(t, "connection timed out", second.Error)
}

func TestParseScripts(t *testing.T) {
	scripts, err := parseScripts([]string{`get=$3\r\nbar\r\n`, `SET=+OK\r\n`})
	require.NoError(t, err)
	assert.Equal(t, "$3\r\nbar\r\n", string(scripts["GET"].Raw))
	assert.Equal(t, "+OK\r\n", string(scripts["SET"].Raw))

	for _, bad := range []string{"GET", "=+OK", "GET="} {
		_, err := parseScripts([]string{bad})
		assert.Error(t, err, bad)
	}
}

func TestLoadPropertiesLayering(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte("timeout = 300\nconnect_timeout = 200\npoll_slice = 5\n"), 0o644))

	env := map[string]string{config.EnvPrefix + "CONNECT_TIMEOUT": "150"}
	lookup := func(k string) (string, bool) {
		v, ok := env[k]
		return v, ok
	}

	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags.Int("timeout", config.DefaultTimeout, "")
	flags.Int("connect-timeout", config.DefaultConnectTimeout, "")
	flags.Int("poll-slice", config.DefaultPollSlice, "")
	require.NoError(t, flags.Parse([]string{"--poll-slice", "20"}))

	props, err := loadProperties(flags, path, lookup)
	require.NoError(t, err)
	assert.Equal(t, 300, props.Timeout)
	assert.Equal(t, 150, props.ConnectTimeout)
	assert.Equal(t, 20, props.PollSlice)
}

func TestLoadPropertiesMissingExplicitFile(t *testing.T) {
	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	_, err := loadProperties(flags, filepath.Join(t.TempDir(), "nope.toml"), func(string) (string, bool) { return "", false })
	assert.Error(t, err)
}

func TestLoadPropertiesRejectsBadFlag(t *testing.T) {
	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags.Int("timeout", config.DefaultTimeout, "")
	require.NoError(t, flags.Parse([]string{"--timeout", "0"}))
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, nil, 0o644))
	_, err := loadProperties(flags, path, func(string) (string, bool) { return "", false })
	assert.Error(t, err)
}

func TestRunCommand(t *testing.T) {
	listener, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	handler := tcp.MakeStubHandler()
	handler.Script("GET", tcp.Script{Raw: []byte("$3\r\nbar\r\n")})
	closeChan := make(chan struct{})
	served := make(chan struct{})
	go func() {
		tcp.ListenAndServe(listener, handler, closeChan)
		close(served)
	}()
	t.Cleanup(func() {
		close(closeChan)
		<-served
	})

	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "config.toml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("timeout = 500\n"), 0o644))
	metricsPath := filepath.Join(dir, "batch.prom")

	target := "tcp://" + listener.Addr().String()
	in := strings.NewReader(target + " PING\n" + target + " GET foo\n" + target + " NOPE\n")
	var out bytes.Buffer

	root := newRootCmd()
	root.SetIn(in)
	root.SetOut(&out)
	root.SetArgs([]string{"run", "--config", cfgPath, "--metrics-file", metricsPath})
	require.NoError(t, root.Execute())

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	require.Len(t, lines, 3)
	var got []resultLine
	for _, l := range lines {
		var r resultLine
		require.NoError(t, json.Unmarshal([]byte(l), &r))
		got = append(got, r)
	}
	assert.Equal(t, true, got[0].Value)
	assert.Equal(t, "bar", got[1].Value)
	assert.True(t, got[2].IsError)
	assert.Equal(t, "unknown command 'NOPE'", got[2].Error)

	metrics, err := os.ReadFile(metricsPath)
	require.NoError(t, err)
	assert.Contains(t, string(metrics), "xasyncredis_outcomes_total")
}
