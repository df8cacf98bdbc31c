package main

import (
	"fmt"
	"os"
	"runtime"
	"runtime/debug"
	"strings"

	"github.com/spf13/cobra"
	pflag "github.com/spf13/pflag"

	"github.com/x-soft-ua/xAsyncRedis/config"
	"github.com/x-soft-ua/xAsyncRedis/lib/logger"
)

const longHelp = `
Send a batch of independent Redis commands, each to its own endpoint,
over one readiness-driven loop with a single deadline for the whole batch.

Configuration is read from $HOME/.xasyncredis/config.toml (or --config),
then XASYNCREDIS_* environment variables, then flags.`

type rootOptions struct {
	configPath string
	props      config.ClientProperties
}

func getVersion() string {
	if info, ok := debug.ReadBuildInfo(); ok && info.Main.Version != "" {
		return info.Main.Version
	}
	return "dev"
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}
	root := &cobra.Command{
		Use:           "xasyncredis",
		Short:         "Fan out independent Redis commands over a single event loop",
		Long:          strings.TrimSpace(longHelp),
		Version:       fmt.Sprintf("%s %s/%s", getVersion(), runtime.GOOS, runtime.GOARCH),
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			props, err := loadProperties(cmd.Flags(), opts.configPath, os.LookupEnv)
			if err != nil {
				return err
			}
			opts.props = props
			return setupLogging(props)
		},
	}

	flags := root.PersistentFlags()
	flags.StringVar(&opts.configPath, "config", "", "config file (default $HOME/.xasyncredis/config.toml)")
	flags.Int("timeout", config.DefaultTimeout, "global deadline for the whole batch, in milliseconds")
	flags.Int("connect-timeout", config.DefaultConnectTimeout, "connect timeout per command, in milliseconds")
	flags.Int("poll-slice", config.DefaultPollSlice, "longest single readiness wait, in milliseconds")
	flags.String("log-level", "info", "log level: debug, info, warn, error")
	flags.String("log-dir", "", "also write logs to files in this directory")

	root.AddCommand(newRunCmd(opts), newServeCmd(opts))
	return root
}

// loadProperties 默认值 -> 配置文件 -> 环境变量 -> 显式设置的 flag
func loadProperties(flags *pflag.FlagSet, cfgPath string, lookup func(string) (string, bool)) (config.ClientProperties, error) {
	props := config.Default()

	path := cfgPath
	if path == "" {
		path = config.DefaultConfigPath()
	}
	if cfgPath != "" || (path != "" && config.FileExists(path)) {
		fileProps, err := config.LoadFile(path)
		if err != nil {
			return props, fmt.Errorf("load config: %w", err)
		}
		props = fileProps
	}

	if err := props.ApplyEnv(lookup); err != nil {
		return props, err
	}

	var err error
	flags.Visit(func(f *pflag.Flag) {
		if err != nil {
			return
		}
		switch f.Name {
		case "timeout":
			props.Timeout, err = flags.GetInt(f.Name)
		case "connect-timeout":
			props.ConnectTimeout, err = flags.GetInt(f.Name)
		case "poll-slice":
			props.PollSlice, err = flags.GetInt(f.Name)
		case "log-level":
			props.LogLevel, err = flags.GetString(f.Name)
		case "log-dir":
			props.LogDir, err = flags.GetString(f.Name)
		case "metrics-file":
			props.MetricsFile, err = flags.GetString(f.Name)
		}
	})
	if err != nil {
		return props, err
	}
	return props, props.Validate()
}

func setupLogging(props config.ClientProperties) error {
	level, err := logger.ParseLevel(props.LogLevel)
	if err != nil {
		return err
	}
	if props.LogDir != "" {
		logger.Setup(&logger.Settings{
			Path:       props.LogDir,
			Name:       "xasyncredis",
			Ext:        "log",
			TimeFormat: "2006-01-02",
		})
	}
	logger.SetLevel(level)
	return nil
}
