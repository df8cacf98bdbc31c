package main

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/x-soft-ua/xAsyncRedis/client"
	"github.com/x-soft-ua/xAsyncRedis/lib/logger"
)

const runExample = `  printf 'tcp://127.0.0.1:6379 SET foo "bar baz"\nunix:///tmp/redis.sock GET foo\n' | xasyncredis run
  xasyncredis run --input commands.txt --timeout 500`

// 一行输出
type resultLine struct {
	ID      int         `json:"id"`
	Target  string      `json:"target"`
	Command string      `json:"command"`
	Value   interface{} `json:"value"`
	IsError bool        `json:"is_error"`
	Error   string      `json:"error,omitempty"`
}

func newRunCmd(opts *rootOptions) *cobra.Command {
	var input string
	cmd := &cobra.Command{
		Use:     "run",
		Short:   "Send one batch of commands read from a file or stdin",
		Long:    "Each input line is '<target> <command>'. Blank lines and lines starting with # are ignored.",
		Example: runExample,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			r := cmd.InOrStdin()
			if input != "" && input != "-" {
				f, err := os.Open(input)
				if err != nil {
					return err
				}
				defer f.Close()
				r = f
			}
			cmds, err := readCommands(r)
			if err != nil {
				return err
			}

			reg := prometheus.NewRegistry()
			metrics, err := client.NewMetrics(reg)
			if err != nil {
				return err
			}
			c := client.NewClient(client.WithProperties(opts.props), client.WithMetrics(metrics))
			results, doErr := c.Do(cmds)

			if err := writeResults(cmd.OutOrStdout(), results); err != nil {
				return err
			}
			if opts.props.MetricsFile != "" {
				if err := prometheus.WriteToTextfile(opts.props.MetricsFile, reg); err != nil {
					logger.Errorf("write metrics: %v", err)
				}
			}
			return doErr
		},
	}
	cmd.Flags().StringVarP(&input, "input", "i", "-", "file with one '<target> <command>' per line, - for stdin")
	cmd.Flags().String("metrics-file", "", "write prometheus metrics of the batch to this file")
	return cmd
}

// readCommands 解析输入，每行：<目标地址> <命令>
func readCommands(r io.Reader) ([]client.Command, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), 16<<20)
	var cmds []client.Command
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		i := strings.IndexAny(line, " \t")
		if i < 0 {
			return nil, fmt.Errorf("line %d: missing command after target %q", lineNo, line)
		}
		cmds = append(cmds, client.Command{
			ID:     len(cmds),
			Target: line[:i],
			Text:   strings.TrimSpace(line[i+1:]),
		})
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return cmds, nil
}

func writeResults(w io.Writer, results []client.Outcome) error {
	enc := json.NewEncoder(w)
	for _, o := range results {
		if err := enc.Encode(resultLine{
			ID:      o.ID,
			Target:  o.Command.Target,
			Command: o.Command.Text,
			Value:   o.Value,
			IsError: o.IsError,
			Error:   o.ErrMsg,
		}); err != nil {
			return err
		}
	}
	return nil
}
