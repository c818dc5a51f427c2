package main

import (
	"fmt"
	"os"

	"marketfetch/config"
	"marketfetch/internal/command"
	"marketfetch/logger"

	"go.uber.org/zap"
)

func main() {
	// viper config
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, "failed to load config:", err)
		os.Exit(1)
	}

	// zap logger
	log, err := logger.New(cfg.Log)
	if err != nil {
		fmt.Fprintln(os.Stderr, "failed to create logger:", err)
		os.Exit(1)
	}
	defer log.Sync()

	// dispatch
	if err := command.Run(os.Args[1:], cfg, log, os.Stdout); err != nil {
		log.Error("command failed", zap.Error(err))
		log.Sync()
		os.Exit(1)
	}
}
