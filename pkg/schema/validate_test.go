package schema_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/logsieve/logsieve/pkg/schema"
)

const testSchema = `{
	"$schema": "https://json-schema.org/draft/2020-12/schema",
	"type": "object",
	"properties": {
		"watch": {
			"type": "object",
			"properties": {
				"keywords": {
					"type": "array",
					"items": {"type": "string"}
				}
			},
			"additionalProperties": false
		}
	},
	"additionalProperties": false
}`

func TestValidator_Validate(t *testing.T) {
	t.Parallel()

	v, err := schema.NewValidator("/test.json", []byte(testSchema))
	require.NoError(t, err)

	tcs := map[string]struct {
		data    any
		wantErr string
	}{
		"valid": {
			data: map[string]any{
				"watch": map[string]any{
					"keywords": []any{"ERROR"},
				},
			},
		},
		"wrong type": {
			data: map[string]any{
				"watch": map[string]any{
					"keywords": "notalist",
				},
			},
			wantErr: "/watch/keywords",
		},
		"unknown property": {
			data: map[string]any{
				"dashboards": true,
			},
			wantErr: "schema validation",
		},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			err := v.Validate(tc.data)
			if tc.wantErr == "" {
				require.NoError(t, err)

				return
			}

			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.wantErr)
		})
	}
}

func TestNewValidator_BadSchema(t *testing.T) {
	t.Parallel()

	_, err := schema.NewValidator("/bad.json", []byte("{not json"))
	require.Error(t, err)
}

func TestMustNewValidator_Panics(t *testing.T) {
	t.Parallel()

	assert.Panics(t, func() {
		schema.MustNewValidator("/bad.json", []byte("{not json"))
	})
}
