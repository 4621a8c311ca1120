package logging

import (
	"io"
	"os"
	"time"

	clog "github.com/charmbracelet/log"

	"twofa/internal/config"
)

// New собирает логгер из секции log конфига. Неизвестный уровень -> info.
func New(cfg config.LogConfig, w io.Writer) *clog.Logger {
	if w == nil {
		w = os.Stderr
	}
	level, err := clog.ParseLevel(cfg.Level)
	if err != nil {
		level = clog.InfoLevel
	}

	formatter := clog.TextFormatter
	switch cfg.Format {
	case "json":
		formatter = clog.JSONFormatter
	case "logfmt":
		formatter = clog.LogfmtFormatter
	}

	return clog.NewWithOptions(w, clog.Options{
		Level:           level,
		Formatter:       formatter,
		ReportTimestamp: true,
		TimeFormat:      time.RFC3339,
		Prefix:          "twofa",
	})
}

// Discard: для тестов.
func Discard() *clog.Logger {
	return clog.NewWithOptions(io.Discard, clog.Options{Level: clog.FatalLevel})
}
