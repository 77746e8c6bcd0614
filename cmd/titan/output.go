// Copyright (C) 2025 Opulentia AI
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
)

// Exit codes for CLI commands.
const (
	CLIExitSuccess = 0 // Operation completed successfully
	CLIExitError   = 2 // Operation failed
)

// OutputJSON writes structured data as JSON to w.
//
// # Inputs
//
//   - w: Destination writer (stdout in production, a buffer in tests).
//   - data: The data to encode. Must be JSON-serializable.
//   - compact: If true, output without indentation.
//
// # Outputs
//
//   - error: Non-nil if encoding fails.
func OutputJSON(w io.Writer, data any, compact bool) error {
	encoder := json.NewEncoder(w)
	if !compact {
		encoder.SetIndent("", "  ")
	}
	return encoder.Encode(data)
}

// OutputError writes a human-readable error to stderr and returns the error
// exit code.
func OutputError(msg string, err error) int {
	fmt.Fprintf(os.Stderr, "Error: %s: %v\n", msg, err)
	return CLIExitError
}
