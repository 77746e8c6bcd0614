// Copyright (C) 2025 Opulentia AI
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Command titan is the CLI for the Titan diverse-candidate selection engine.
//
// It exposes the selection pipeline both as one-shot commands and as a
// long-running HTTP service:
//
//	# Pick a diverse subset from explicit candidates
//	titan select "find winter jackets" \
//	    --candidates "search for winter jackets" \
//	    --candidates "browse the jackets category" \
//	    --candidates "look up winter jackets on the site" \
//	    --k 2
//
//	# Expand the query into template variants first, then select
//	titan select "find winter jackets" --expand
//
//	# Estimate query complexity (drives the default selection size)
//	titan complexity "find the product and compare prices"
//
//	# Expand a query without selecting
//	titan expand "log in and check my orders"
//
//	# Run the HTTP service
//	titan serve --config config.yaml
package main

import (
	"log"
	"os"

	"github.com/OpulentiaAI/titan/pkg/logging"
)

func main() {
	logger := logging.New(logging.Config{
		Level:   logLevelFromEnv(),
		Service: "cli",
	})
	defer logger.Close()
	logger.SetAsDefault()

	if err := rootCmd.Execute(); err != nil {
		log.Fatalf("Error executing command: %v", err)
	}
}

// logLevelFromEnv maps TITAN_LOG_LEVEL to a logging.Level, defaulting to Warn
// so one-shot commands stay quiet unless asked.
func logLevelFromEnv() logging.Level {
	switch os.Getenv("TITAN_LOG_LEVEL") {
	case "debug":
		return logging.LevelDebug
	case "info":
		return logging.LevelInfo
	case "error":
		return logging.LevelError
	default:
		return logging.LevelWarn
	}
}
