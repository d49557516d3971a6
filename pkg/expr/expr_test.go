package expr_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/macropower/strata/pkg/expr"
)

func TestEnvironment_Compile(t *testing.T) {
	t.Parallel()

	env := expr.MustNewEnvironment()

	tests := []struct {
		name       string
		expression string
		wantErr    bool
	}{
		{
			name:       "path extension check",
			expression: `pathExt(path) in [".c", ".h"]`,
			wantErr:    false,
		},
		{
			name:       "base name check",
			expression: `pathBase(path) == "Makefile"`,
			wantErr:    false,
		},
		{
			name:       "event restriction",
			expression: `event == "codeReview" && pathDir(path).startsWith("src")`,
			wantErr:    false,
		},
		{
			name:       "unknown function",
			expression: `pathMagic(path)`,
			wantErr:    true,
		},
		{
			name:       "unknown variable",
			expression: `files.size() > 0`,
			wantErr:    true,
		},
		{
			name:       "empty expression",
			expression: ``,
			wantErr:    true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			program, err := env.Compile(tt.expression)

			if tt.wantErr {
				require.Error(t, err)
			} else {
				require.NoError(t, err)
				require.NotNil(t, program)
			}
		})
	}
}

func TestEnvironment_Eval(t *testing.T) {
	t.Parallel()

	env := expr.MustNewEnvironment()

	tests := []struct {
		name       string
		expression string
		path       string
		event      string
		want       bool
	}{
		{
			name:       "extension matches",
			expression: `pathExt(path) in [".c", ".h"]`,
			path:       "src/uart.c",
			event:      "completion",
			want:       true,
		},
		{
			name:       "extension does not match",
			expression: `pathExt(path) in [".c", ".h"]`,
			path:       "test/uart.py",
			event:      "completion",
			want:       false,
		},
		{
			name:       "event gate",
			expression: `event == "codeReview"`,
			path:       "src/uart.c",
			event:      "chat",
			want:       false,
		},
		{
			name:       "dir helper",
			expression: `pathDir(path) == "src/drivers"`,
			path:       "src/drivers/uart.c",
			event:      "completion",
			want:       true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			program, err := env.Compile(tt.expression)
			require.NoError(t, err)

			result, _, err := program.Eval(map[string]any{
				"path":  tt.path,
				"event": tt.event,
			})
			require.NoError(t, err)

			got, ok := result.Value().(bool)
			require.True(t, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}
