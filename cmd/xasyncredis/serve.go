package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/x-soft-ua/xAsyncRedis/client"
	"github.com/x-soft-ua/xAsyncRedis/tcp"
)

var escapes = strings.NewReplacer(`\r`, "\r", `\n`, "\n")

func newServeCmd(opts *rootOptions) *cobra.Command {
	var (
		addr    string
		scripts []string
	)
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run a stub RESP endpoint that answers with canned replies",
		Long: `Answers PING and ECHO, replies with scripted raw RESP for the verbs given
with --script, and reports an unknown command error for everything else.`,
		Example: `  xasyncredis serve --addr 127.0.0.1:6390 --script 'GET=$3\r\nbar\r\n' --script 'SET=+OK\r\n'`,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			network, address, err := client.ParseTarget(addr)
			if err != nil {
				return err
			}
			handler := tcp.MakeStubHandler()
			parsed, err := parseScripts(scripts)
			if err != nil {
				return err
			}
			for verb, s := range parsed {
				handler.Script(verb, s)
			}
			return tcp.ListenAndServeWithSignal(&tcp.Config{Address: address, Network: network}, handler)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "tcp://127.0.0.1:6390", "address to listen on (tcp://host:port or unix:///path)")
	cmd.Flags().StringArrayVar(&scripts, "script", nil, `canned reply as VERB=RAW, \r and \n are unescaped`)
	return cmd
}

// VERB=RAW
func parseScripts(specs []string) (map[string]tcp.Script, error) {
	scripts := make(map[string]tcp.Script, len(specs))
	for _, spec := range specs {
		verb, raw, ok := strings.Cut(spec, "=")
		if !ok || verb == "" || raw == "" {
			return nil, fmt.Errorf("invalid script %q, want VERB=RAW", spec)
		}
		scripts[strings.ToUpper(verb)] = tcp.Script{Raw: []byte(escapes.Replace(raw))}
	}
	return scripts, nil
}
