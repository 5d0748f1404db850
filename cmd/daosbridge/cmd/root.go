// Copyright (C) 2026 Storj Labs, Inc.
// See LICENSE for copying information.

// Package cmd implements the daosbridge command-line tool: a small harness
// exercising pkg/objectstore and pkg/pagestore end to end without a real
// object-store deployment, backed by pkg/objectstore/memtransport.
package cmd

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/root-project/rntuple-daos/internal/logging"
)

var (
	poolFlag        string
	containerFlag   string
	logLevelFlag    string
	logEncodingFlag string

	logger *zap.Logger
)

// RootCmd is the daosbridge entrypoint.
var RootCmd = &cobra.Command{
	Use:           "daosbridge",
	Short:         "Exercise the object-store page sink/source against an in-memory pool",
	SilenceUsage:  true,
	SilenceErrors: false,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		logger, err = buildLogger()
		return err
	},
}

func init() {
	flags := RootCmd.PersistentFlags()
	flags.StringVar(&poolFlag, "pool", "demo-pool", "pool label to connect to")
	flags.StringVar(&containerFlag, "container", "demo-container", "container label to open")
	flags.StringVar(&logLevelFlag, "log.level", "info", "minimum log level (debug, info, warn, error)")
	flags.StringVar(&logEncodingFlag, "log.encoding", "console", "log encoding: console or json")

	viper.BindPFlag("pool", flags.Lookup("pool"))
	viper.BindPFlag("container", flags.Lookup("container"))
	viper.BindPFlag("log.level", flags.Lookup("log.level"))
	viper.BindPFlag("log.encoding", flags.Lookup("log.encoding"))

	RootCmd.AddCommand(demoCmd)
}

func buildLogger() (*zap.Logger, error) {
	cfg := logging.NewDefault()
	cfg.Encoding = viper.GetString("log.encoding")
	var level zapcore.Level
	if err := level.UnmarshalText([]byte(viper.GetString("log.level"))); err != nil {
		return nil, err
	}
	cfg.Level = level
	return cfg.Build()
}
