// Copyright (C) 2025 Opulentia AI
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package logging

import (
	"bufio"
	"context"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"
)

// =============================================================================
// Level Tests
// =============================================================================

func TestLevel_String(t *testing.T) {
	tests := []struct {
		level Level
		want  string
	}{
		{LevelDebug, "DEBUG"},
		{LevelInfo, "INFO"},
		{LevelWarn, "WARN"},
		{LevelError, "ERROR"},
		{Level(99), "UNKNOWN"},
		{Level(-1), "UNKNOWN"},
	}

	for _, tt := range tests {
		if got := tt.level.String(); got != tt.want {
			t.Errorf("Level(%d).String() = %q, want %q", tt.level, got, tt.want)
		}
	}
}

func TestLevel_ToSlogLevel(t *testing.T) {
	tests := []struct {
		level Level
		want  slog.Level
	}{
		{LevelDebug, slog.LevelDebug},
		{LevelInfo, slog.LevelInfo},
		{LevelWarn, slog.LevelWarn},
		{LevelError, slog.LevelError},
		{Level(99), slog.LevelInfo},
	}

	for _, tt := range tests {
		if got := tt.level.toSlogLevel(); got != tt.want {
			t.Errorf("Level(%d).toSlogLevel() = %v, want %v", tt.level, got, tt.want)
		}
	}
}

// =============================================================================
// Constructor Tests
// =============================================================================

func TestNew_ZeroConfig(t *testing.T) {
	logger := New(Config{})
	defer logger.Close()

	if logger.slog == nil {
		t.Fatal("expected underlying slog.Logger to be set")
	}

	// Should not panic
	logger.Info("message", "key", "value")
}

func TestDefault(t *testing.T) {
	logger := Default()
	defer logger.Close()

	if logger.config.Service != "titan" {
		t.Errorf("Default() service = %q, want %q", logger.config.Service, "titan")
	}
	if logger.config.Level != LevelInfo {
		t.Errorf("Default() level = %v, want %v", logger.config.Level, LevelInfo)
	}
}

// =============================================================================
// File Logging Tests
// =============================================================================

func TestNew_FileLogging(t *testing.T) {
	dir := t.TempDir()

	logger := New(Config{
		Level:   LevelInfo,
		LogDir:  dir,
		Service: "selection",
		Quiet:   true,
	})

	logger.Info("selection complete", "selected", 3)
	if err := logger.Close(); err != nil {
		t.Fatalf("Close() error: %v", err)
	}

	filename := "selection_" + time.Now().Format("2006-01-02") + ".log"
	path := filepath.Join(dir, filename)

	file, err := os.Open(path)
	if err != nil {
		t.Fatalf("expected log file at %s: %v", path, err)
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	if !scanner.Scan() {
		t.Fatal("expected at least one log line")
	}

	var entry map[string]any
	if err := json.Unmarshal(scanner.Bytes(), &entry); err != nil {
		t.Fatalf("file log is not JSON: %v", err)
	}
	if entry["msg"] != "selection complete" {
		t.Errorf("msg = %v, want %q", entry["msg"], "selection complete")
	}
	if entry["service"] != "selection" {
		t.Errorf("service = %v, want %q", entry["service"], "selection")
	}
	if entry["selected"] != float64(3) {
		t.Errorf("selected = %v, want 3", entry["selected"])
	}
}

func TestNew_FileLoggingDefaultServiceName(t *testing.T) {
	dir := t.TempDir()

	logger := New(Config{LogDir: dir, Quiet: true})
	logger.Info("hello")
	_ = logger.Close()

	filename := "titan_" + time.Now().Format("2006-01-02") + ".log"
	if _, err := os.Stat(filepath.Join(dir, filename)); err != nil {
		t.Fatalf("expected default-named log file: %v", err)
	}
}

func TestNew_CreatesLogDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "logs")

	logger := New(Config{LogDir: dir, Service: "cli", Quiet: true})
	logger.Info("hello")
	_ = logger.Close()

	info, err := os.Stat(dir)
	if err != nil {
		t.Fatalf("expected log directory to be created: %v", err)
	}
	if !info.IsDir() {
		t.Fatal("expected a directory")
	}
}

func TestLevelFiltering(t *testing.T) {
	dir := t.TempDir()

	logger := New(Config{
		Level:   LevelWarn,
		LogDir:  dir,
		Service: "cli",
		Quiet:   true,
	})

	logger.Debug("debug message")
	logger.Info("info message")
	logger.Warn("warn message")
	logger.Error("error message")
	_ = logger.Close()

	data, err := os.ReadFile(filepath.Join(dir, "cli_"+time.Now().Format("2006-01-02")+".log"))
	if err != nil {
		t.Fatalf("reading log file: %v", err)
	}

	content := string(data)
	if strings.Contains(content, "debug message") || strings.Contains(content, "info message") {
		t.Error("messages below Warn should be filtered out")
	}
	if !strings.Contains(content, "warn message") || !strings.Contains(content, "error message") {
		t.Error("Warn and Error messages should be present")
	}
}

// =============================================================================
// With Tests
// =============================================================================

func TestWith_AddsAttributes(t *testing.T) {
	dir := t.TempDir()

	logger := New(Config{LogDir: dir, Service: "cli", Quiet: true})
	reqLogger := logger.With("request_id", "req-42")
	reqLogger.Info("processing")
	_ = logger.Close()

	data, err := os.ReadFile(filepath.Join(dir, "cli_"+time.Now().Format("2006-01-02")+".log"))
	if err != nil {
		t.Fatalf("reading log file: %v", err)
	}
	if !strings.Contains(string(data), "req-42") {
		t.Error("expected request_id attribute in child logger output")
	}
}

func TestWith_DoesNotModifyParent(t *testing.T) {
	logger := New(Config{Quiet: true})
	defer logger.Close()

	child := logger.With("key", "value")
	if child == logger {
		t.Fatal("With() must return a new logger")
	}
	if child.slog == logger.slog {
		t.Fatal("child must have its own slog.Logger")
	}
}

// =============================================================================
// Close Tests
// =============================================================================

func TestClose_NoFile(t *testing.T) {
	logger := New(Config{Quiet: true})
	if err := logger.Close(); err != nil {
		t.Fatalf("Close() without file should not error: %v", err)
	}
}

func TestClose_Idempotent(t *testing.T) {
	logger := New(Config{LogDir: t.TempDir(), Quiet: true})
	if err := logger.Close(); err != nil {
		t.Fatalf("first Close() error: %v", err)
	}
	if err := logger.Close(); err != nil {
		t.Fatalf("second Close() error: %v", err)
	}
}

// =============================================================================
// multiHandler Tests
// =============================================================================

type countingHandler struct {
	mu    sync.Mutex
	count int
	level slog.Level
}

func (h *countingHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.level
}

func (h *countingHandler) Handle(_ context.Context, _ slog.Record) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.count++
	return nil
}

func (h *countingHandler) WithAttrs(_ []slog.Attr) slog.Handler { return h }
func (h *countingHandler) WithGroup(_ string) slog.Handler      { return h }

func TestMultiHandler_FansOut(t *testing.T) {
	a := &countingHandler{level: slog.LevelInfo}
	b := &countingHandler{level: slog.LevelInfo}

	logger := slog.New(&multiHandler{handlers: []slog.Handler{a, b}})
	logger.Info("hello")

	if a.count != 1 || b.count != 1 {
		t.Errorf("expected both handlers to receive the record, got %d and %d", a.count, b.count)
	}
}

func TestMultiHandler_RespectsPerHandlerLevel(t *testing.T) {
	verbose := &countingHandler{level: slog.LevelDebug}
	terse := &countingHandler{level: slog.LevelError}

	logger := slog.New(&multiHandler{handlers: []slog.Handler{verbose, terse}})
	logger.Info("hello")

	if verbose.count != 1 {
		t.Errorf("debug handler should receive Info record, got %d", verbose.count)
	}
	if terse.count != 0 {
		t.Errorf("error-only handler should skip Info record, got %d", terse.count)
	}
}

// =============================================================================
// expandPath Tests
// =============================================================================

func TestExpandPath(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skip("no home directory available")
	}

	tests := []struct {
		in   string
		want string
	}{
		{"~/logs", filepath.Join(home, "logs")},
		{"/var/log", "/var/log"},
		{"relative/path", "relative/path"},
		{"", ""},
	}

	for _, tt := range tests {
		if got := expandPath(tt.in); got != tt.want {
			t.Errorf("expandPath(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

// =============================================================================
// Concurrency Tests
// =============================================================================

func TestLogger_ConcurrentUse(t *testing.T) {
	logger := New(Config{LogDir: t.TempDir(), Service: "cli", Quiet: true})
	defer logger.Close()

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			logger.Info("concurrent", "worker", n)
			logger.With("worker", n).Warn("child")
		}(i)
	}
	wg.Wait()
}
