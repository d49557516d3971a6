package log_test

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/macropower/strata/pkg/log"
)

func TestGetLevel(t *testing.T) {
	t.Parallel()

	tcs := map[string]struct {
		input   string
		want    slog.Level
		wantErr bool
	}{
		"error":           {input: "error", want: slog.LevelError},
		"warn":            {input: "warn", want: slog.LevelWarn},
		"warning alias":   {input: "warning", want: slog.LevelWarn},
		"info":            {input: "info", want: slog.LevelInfo},
		"debug":           {input: "debug", want: slog.LevelDebug},
		"case insensitiv": {input: "INFO", want: slog.LevelInfo},
		"unknown":         {input: "verbose", wantErr: true},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			got, err := log.GetLevel(tc.input)
			if tc.wantErr {
				require.ErrorIs(t, err, log.ErrUnknownLogLevel)

				return
			}

			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestGetFormat(t *testing.T) {
	t.Parallel()

	got, err := log.GetFormat("JSON")
	require.NoError(t, err)
	assert.Equal(t, log.FormatJSON, got)

	_, err = log.GetFormat("xml")
	require.ErrorIs(t, err, log.ErrUnknownLogFormat)
}

func TestCreateHandlerWithStrings(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer

	h, err := log.CreateHandlerWithStrings(&buf, "info", "json")
	require.NoError(t, err)

	logger := slog.New(h)
	logger.Info("hello", slog.String("k", "v"))

	assert.Contains(t, buf.String(), `"msg":"hello"`)
	assert.Contains(t, buf.String(), `"k":"v"`)

	_, err = log.CreateHandlerWithStrings(&buf, "nope", "json")
	require.ErrorIs(t, err, log.ErrInvalidArgument)
}

func TestWithContext(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer

	stored := slog.New(slog.NewTextHandler(&buf, nil))
	ctx := log.ContextWithLogger(context.Background(), stored)

	assert.Same(t, stored, log.WithContext(ctx))
	assert.Same(t, slog.Default(), log.WithContext(context.Background()))
}
