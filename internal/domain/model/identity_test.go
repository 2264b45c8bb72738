package model_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/linkdeck-app/linkdeck/internal/domain/model"
)

func TestNormalizeID(t *testing.T) {
	tests := []struct {
		name string
		in   any
		want string
	}{
		{"plain string", "68a1b2c3", "68a1b2c3"},
		{"oid wrapper", map[string]any{"$oid": "68a1b2c3"}, "68a1b2c3"},
		{"wrapper without oid key", map[string]any{"id": "68a1b2c3"}, ""},
		{"oid key with non-string value", map[string]any{"$oid": 12}, ""},
		{"nil", nil, ""},
		{"number", float64(42), ""},
		{"empty string", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, model.NormalizeID(tt.in))
		})
	}
}

func TestNormalizeID_Idempotent(t *testing.T) {
	inputs := []any{
		"68a1b2c3",
		map[string]any{"$oid": "68a1b2c3"},
		"",
	}

	for _, in := range inputs {
		once := model.NormalizeID(in)
		twice := model.NormalizeID(once)
		assert.Equal(t, once, twice)
	}
}

func TestNormalizeID_FromJSON(t *testing.T) {
	// Backend payloads decode id fields into `any`; both serializations
	// must reduce to the same plain string.
	var plain, wrapped struct {
		ID any `json:"_id"`
	}

	require.NoError(t, json.Unmarshal([]byte(`{"_id":"68a1b2c3"}`), &plain))
	require.NoError(t, json.Unmarshal([]byte(`{"_id":{"$oid":"68a1b2c3"}}`), &wrapped))

	assert.Equal(t, "68a1b2c3", model.NormalizeID(plain.ID))
	assert.Equal(t, "68a1b2c3", model.NormalizeID(wrapped.ID))
}
