package logger_test

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/billbook/internal/logger"
)

func TestNew(t *testing.T) {
	type testCase struct {
		name    string
		cfg     logger.Config
		wantErr bool
	}

	tests := []testCase{
		{name: "Text", cfg: logger.Config{Level: "info", Format: "text"}},
		{name: "JSON", cfg: logger.Config{Level: "debug", Format: "json"}},
		{name: "DefaultFormat", cfg: logger.Config{Level: "warn"}},
		{name: "UpperCase", cfg: logger.Config{Level: "ERROR", Format: "JSON"}},
		{name: "BadLevel", cfg: logger.Config{Level: "loud", Format: "text"}, wantErr: true},
		{name: "BadFormat", cfg: logger.Config{Level: "info", Format: "xml"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l, err := logger.New(&bytes.Buffer{}, tt.cfg)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}

			require.NoError(t, err)
			assert.NotNil(t, l)
		})
	}
}

func TestNew_JSONRespectsLevel(t *testing.T) {
	var buf bytes.Buffer

	l, err := logger.New(&buf, logger.Config{Level: "warn", Format: "json"})
	require.NoError(t, err)

	l.Info("hidden")
	l.Warn("payment rejected", "invoice", "INV-00001")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))

	assert.Equal(t, "payment rejected", entry["msg"])
	assert.Equal(t, "INV-00001", entry["invoice"])
	assert.Equal(t, slog.LevelWarn.String(), entry["level"])
}
