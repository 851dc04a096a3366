package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/gamestringer/gsbridge/internal/bridge"
	"github.com/gamestringer/gsbridge/internal/cleanup"
	"github.com/gamestringer/gsbridge/internal/files"
	"github.com/gamestringer/gsbridge/internal/language"
	"github.com/gamestringer/gsbridge/internal/logger"
)

// setupLogging initializes the global logger from the shared --debug and
// --log-file flags.
func setupLogging(debug bool, logFilePath string) error {
	logLevel := logger.LevelInfo
	if debug {
		logLevel = logger.LevelDebug
	}
	var logFileW io.Writer
	if logFilePath != "" {
		if err := files.RejectSymlinkPath(logFilePath); err != nil {
			return err
		}
		f, err := os.OpenFile(logFilePath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0600)
		if err != nil {
			return fmt.Errorf("failed to open log file: %w", err)
		}
		cleanup.Register(f.Close)
		logFileW = f
	}
	logger.Init(logLevel, logFileW)
	return nil
}

// resolvePair normalizes a source/target language pair from CLI flags.
func resolvePair(source, target string) (string, string, error) {
	src, err := language.Normalize(source)
	if err != nil {
		return "", "", fmt.Errorf("invalid source language: %w", err)
	}
	tgt, err := language.Normalize(target)
	if err != nil {
		return "", "", fmt.Errorf("invalid target language: %w", err)
	}
	if src == tgt {
		return "", "", fmt.Errorf("source and target language are both %q", src)
	}
	return src, tgt, nil
}

// loadDictionaryFiles loads each path into the bridge's active pair,
// dispatching on extension. Returns the total entry count loaded.
func loadDictionaryFiles(b *bridge.Bridge, paths []string, sourceCol, targetCol int) (int, error) {
	total := 0
	for _, path := range paths {
		var (
			count int
			err   error
		)
		switch ext := strings.ToLower(filepath.Ext(path)); ext {
		case ".json":
			count, err = b.LoadDictionaryFromJSON(path)
		case ".csv":
			count, err = b.LoadDictionaryFromCSV(path, sourceCol, targetCol)
		default:
			return total, fmt.Errorf("unsupported dictionary extension %q for %s (supported: .json, .csv)", ext, path)
		}
		if err != nil {
			return total, fmt.Errorf("failed to load %s: %w", path, err)
		}
		logger.Info("Dictionary loaded", "path", path, "entries", count)
		total += count
	}
	return total, nil
}

func signalContext() (context.Context, func()) {
	ctx, cancel := context.WithCancel(context.Background())
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigCh
		logger.Warn("Shutdown requested")
		cancel()
	}()
	stop := func() {
		signal.Stop(sigCh)
		cancel()
	}
	return ctx, stop
}
