// SPDX-FileCopyrightText: Copyright 2026 Wristband, Inc.
// SPDX-License-Identifier: Apache-2.0

// Package main is the entry point for the Wristband auth service.
package main

import (
	"os"

	"github.com/wristband/go-service-auth/cmd/wbauthd/app"
	"github.com/wristband/go-service-auth/pkg/logger"
)

func main() {
	logger.Initialize()

	if err := app.NewRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
