package logger_test

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	qt "github.com/frankban/quicktest"
	"github.com/rs/zerolog"

	"github.com/cgmis/guidance/internal/pkg/logger"
)

func TestParseLevel(t *testing.T) {
	tests := map[string]logger.LogLevel{
		"debug":   logger.DebugLevel,
		" WARN ":  logger.WarnLevel,
		"error":   logger.ErrorLevel,
		"info":    logger.InfoLevel,
		"verbose": logger.InfoLevel,
		"":        logger.InfoLevel,
	}

	for in, want := range tests {
		t.Run(in, func(t *testing.T) {
			qt.New(t).Assert(logger.ParseLevel(in), qt.Equals, want)
		})
	}
}

func TestConfigureJSONOutput(t *testing.T) {
	c := qt.New(t)
	defer zerolog.SetGlobalLevel(zerolog.InfoLevel)

	var buf bytes.Buffer
	logger.Configure(logger.Config{Level: logger.WarnLevel, Output: &buf})

	logger.Info().Msg("dropped")
	logger.Warn().Str("studentID", "7").Msg("kept")

	var entry map[string]interface{}
	c.Assert(json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &entry), qt.IsNil)
	c.Assert(entry["message"], qt.Equals, "kept")
	c.Assert(entry["studentID"], qt.Equals, "7")
	c.Assert(entry["level"], qt.Equals, "warn")
}

func TestConfigureTeesToRotatingFile(t *testing.T) {
	c := qt.New(t)
	defer zerolog.SetGlobalLevel(zerolog.InfoLevel)

	path := filepath.Join(c.TempDir(), "app.log")
	var buf bytes.Buffer
	lgr := logger.Configure(logger.Config{
		Level:  logger.InfoLevel,
		Output: &buf,
		File:   &logger.FileConfig{Path: path, MaxSizeMB: 1, MaxBackups: 1, MaxAgeDays: 1},
	})
	lgr.Info().Msg("to both")

	data, err := os.ReadFile(path)
	c.Assert(err, qt.IsNil)
	c.Assert(string(data), qt.Contains, "to both")
	c.Assert(buf.String(), qt.Contains, "to both")
}
