package yaml_test

import (
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/macropower/strata/pkg/yaml"
)

const testSchema = `{
	"type": "object",
	"properties": {
		"name": {"type": "string"},
		"tokens": {"type": "number"}
	},
	"required": ["name"],
	"additionalProperties": false
}`

func TestNewValidator(t *testing.T) {
	t.Parallel()

	tcs := map[string]struct {
		errMsg     string
		schemaData []byte
		wantErr    bool
	}{
		"valid schema": {
			schemaData: []byte(testSchema),
		},
		"invalid json": {
			schemaData: []byte(`{"invalid": json}`),
			wantErr:    true,
			errMsg:     "unmarshal schema",
		},
		"invalid schema": {
			schemaData: []byte(`{"type": "invalid_type"}`),
			wantErr:    true,
			errMsg:     "compile schema",
		},
		"empty schema": {
			schemaData: []byte(`{}`),
		},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			validator, err := yaml.NewValidator("/test.json", tc.schemaData)

			if tc.wantErr {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tc.errMsg)
				assert.Nil(t, validator)

				return
			}

			require.NoError(t, err)
			assert.NotNil(t, validator)
		})
	}
}

func TestValidatorValidate(t *testing.T) {
	t.Parallel()

	validator := yaml.MustNewValidator("/test.json", []byte(testSchema))

	tcs := map[string]struct {
		input   string
		wantErr bool
	}{
		"valid":            {input: "name: a\ntokens: 3\n"},
		"missing required": {input: "tokens: 3\n", wantErr: true},
		"wrong type":       {input: "name: a\ntokens: there\n", wantErr: true},
		"unknown property": {input: "name: a\ncolor: red\n", wantErr: true},
		"optional omitted": {input: "name: a\n"},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			var data any

			dec := yaml.NewDecoder(bytes.NewReader([]byte(tc.input)))
			require.NoError(t, dec.Decode(&data))

			err := validator.Validate(data)
			if tc.wantErr {
				require.Error(t, err)

				return
			}

			require.NoError(t, err)
		})
	}
}

func TestErrorFormatting(t *testing.T) {
	t.Parallel()

	path := yaml.NewPathBuilder().Root().Child("resolver").Child("maxTokens").Build()

	e := &yaml.Error{
		Err:  errors.New("value is required"),
		Path: path,
	}

	assert.Equal(t, "value is required: at $.resolver.maxTokens", e.Error())

	plain := &yaml.Error{Err: errors.New("bad input")}
	assert.Equal(t, "bad input", plain.Error())
}

func TestErrorWrapper(t *testing.T) {
	t.Parallel()

	source := []byte("name: a\n")
	ew := yaml.NewErrorWrapper(yaml.WithSource(source))

	e := &yaml.Error{Err: errors.New("boom")}

	wrapped := ew.Wrap(e)

	var yamlErr *yaml.Error
	require.ErrorAs(t, wrapped, &yamlErr)
	assert.Equal(t, source, yamlErr.Source)

	// Non-yaml errors pass through unchanged.
	plain := errors.New("plain")
	assert.Same(t, plain, ew.Wrap(plain)) //nolint:testifylint // Identity check.

	assert.NoError(t, ew.Wrap(nil))
}
