// SPDX-FileCopyrightText: Copyright 2026 Wristband, Inc.
// SPDX-License-Identifier: Apache-2.0

// Package app provides the entry point for the wbauthd command-line
// application.
package app

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/wristband/go-service-auth/pkg/config"
	"github.com/wristband/go-service-auth/pkg/logger"
)

var rootCmd = &cobra.Command{
	Use:               "wbauthd",
	DisableAutoGenTag: true,
	Short:             "wbauthd authenticates web requests against Wristband hosted login",
	Long: `wbauthd fronts a service with Wristband hosted-login authentication:
it serves the login, callback, logout, session, and token endpoints, keeps
the resulting tokens in a signed session cookie, and validates bearer JWTs
for API callers.`,
	Run: func(cmd *cobra.Command, _ []string) {
		// If no subcommand is provided, print help
		if err := cmd.Help(); err != nil {
			logger.Errorf("Error displaying help: %v", err)
		}
	},
}

// NewRootCmd creates the root command for the wbauthd CLI.
func NewRootCmd() *cobra.Command {
	rootCmd.PersistentFlags().Bool("debug", false, "Enable debug mode")
	rootCmd.PersistentFlags().String("config", "", "Path to the configuration file")

	rootCmd.AddCommand(serveCmd)

	return rootCmd
}

// loadConfig reads the configuration from the named file (or the default
// locations) merged with WRISTBAND_-prefixed environment variables.
func loadConfig(path string) (*config.Config, error) {
	v := viper.New()

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("wbauthd")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("/etc/wbauthd")
	}

	v.SetEnvPrefix("WRISTBAND")
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		// A missing file is fine when the environment carries everything.
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read configuration: %w", err)
		}
	}

	var cfg config.Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse configuration: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return &cfg, nil
}
