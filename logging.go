/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package main

import (
	"fmt"
	"io"

	"github.com/charmbracelet/log"
)

const logDate string = `2006-01-02T15:04:05.000-07:00`

func newLogger(cfg *Config, w io.Writer) *log.Logger {
	level := log.InfoLevel
	if cfg.verbose {
		level = log.DebugLevel
	}

	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      logDate,
		Level:           level,
	})
}

// humanReadableSize formats a byte count using SI units.
func humanReadableSize(bytes int64) string {
	if bytes < 1000 {
		return fmt.Sprintf("%d B", bytes)
	}

	size := float64(bytes)
	for _, unit := range "kMGTP" {
		size /= 1000
		if size < 1000 {
			return fmt.Sprintf("%.1f %cB", size, unit)
		}
	}
	return fmt.Sprintf("%.1f EB", size/1000)
}
