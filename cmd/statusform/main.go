package main

import (
	"flag"
	"fmt"
	"os"
	"strings"

	"go.uber.org/zap"

	"github.com/dailystatus/internal/client"
	"github.com/dailystatus/internal/config"
	"github.com/dailystatus/internal/logger"
	"github.com/dailystatus/internal/tui"
)

func main() {
	configPath := flag.String("config", "", "path to config file")
	server := flag.String("server", "", "backend base URL, overrides client.base_url")
	logFile := flag.String("log-file", "", "write logs to this file, overrides log.output")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	baseURL := cfg.Client.BaseURL
	if *server != "" {
		baseURL = *server
	}

	if *logFile != "" {
		cfg.Log.Output = *logFile
	}
	log, err := newLogger(cfg.Log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	c := client.New(baseURL, cfg.Client.Timeout, log)
	if err := tui.Run(c, tui.Options{
		LookupMinLength: cfg.Client.LookupMinLength,
		Timeout:         cfg.Client.Timeout,
	}); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

// newLogger 界面独占终端，未配置日志文件时丢弃日志
func newLogger(cfg config.LogConfig) (*zap.Logger, error) {
	if strings.TrimSpace(cfg.Output) == "" {
		return zap.NewNop(), nil
	}
	return logger.New(cfg)
}
