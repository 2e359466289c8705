package logs

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"coderr/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLogLevel(t *testing.T) {
	tests := []struct {
		input   string
		want    slog.Level
		wantErr bool
	}{
		{input: "debug", want: slog.LevelDebug},
		{input: "INFO", want: slog.LevelInfo},
		{input: "", want: slog.LevelInfo},
		{input: "warn", want: slog.LevelWarn},
		{input: "error", want: slog.LevelError},
		{input: "verbose", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := parseLogLevel(tt.input)
			if tt.wantErr {
				assert.Error(t, err)

				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestBuild_JSONToStdout(t *testing.T) {
	var buf bytes.Buffer

	logger, closer, err := build(config.Log{Level: "warn"}, &buf)
	require.NoError(t, err)
	assert.Nil(t, closer)

	logger.Info("dropped")
	logger.Warn("kept", slog.Int64("offerId", 7))

	var record map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &record))
	assert.Equal(t, "kept", record["msg"])
	assert.EqualValues(t, 7, record["offerId"])
}

func TestBuild_TeesIntoRotatingFile(t *testing.T) {
	var buf bytes.Buffer
	path := filepath.Join(t.TempDir(), "coderr.log")

	logger, closer, err := build(config.Log{
		Level:  "info",
		Pretty: true,
		File:   config.LogFile{Path: path, MaxSizeMB: 1},
	}, &buf)
	require.NoError(t, err)
	require.NotNil(t, closer)

	logger.Info("order created", slog.Int64("orderId", 3))
	require.NoError(t, closer.Close())

	written, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(written), "order created")
	assert.Contains(t, buf.String(), "orderId=3")
}

func TestBuild_UnknownLevel(t *testing.T) {
	_, _, err := build(config.Log{Level: "loud"}, &bytes.Buffer{})

	assert.Error(t, err)
}
