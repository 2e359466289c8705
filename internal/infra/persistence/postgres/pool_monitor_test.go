package postgres

import (
	"bytes"
	"context"
	"database/sql"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestPoolMonitor_Report(t *testing.T) {
	tests := []struct {
		name    string
		cur     sql.DBStats
		wantLog string
	}{
		{name: "no new waits", cur: sql.DBStats{WaitCount: 2, WaitDuration: time.Second}},
		{
			name:    "short wait",
			cur:     sql.DBStats{WaitCount: 3, WaitDuration: time.Second + time.Millisecond},
			wantLog: `"level":"DEBUG","msg":"Postgres pool wait observed"`,
		},
		{
			name:    "long wait",
			cur:     sql.DBStats{WaitCount: 4, WaitDuration: 2 * time.Second},
			wantLog: `"level":"WARN","msg":"Postgres pool wait detected"`,
		},
	}

	prev := sql.DBStats{WaitCount: 2, WaitDuration: time.Second}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			m := &poolMonitor{logger: slog.New(slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))}

			m.report(context.Background(), prev, tt.cur)

			if tt.wantLog == "" {
				assert.Empty(t, buf.String())

				return
			}
			assert.Contains(t, buf.String(), tt.wantLog)
		})
	}
}
