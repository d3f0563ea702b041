package mood

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExpressions(t *testing.T) {
	t.Run("Decoding Preserves Key Order", func(t *testing.T) {
		var e Expressions
		require.NoError(t, json.Unmarshal([]byte(`{"sad":0.1,"happy":0.8,"angry":0.1}`), &e))

		assert.Equal(t, Expressions{
			{Label: "sad", Score: 0.1},
			{Label: "happy", Score: 0.8},
			{Label: "angry", Score: 0.1},
		}, e)
	})

	t.Run("Null Decodes To Nil", func(t *testing.T) {
		e := Expressions{{Label: "x", Score: 1}}
		require.NoError(t, json.Unmarshal([]byte(`null`), &e))
		assert.Nil(t, e)
	})

	t.Run("Rejects Non-Object", func(t *testing.T) {
		var e Expressions
		assert.Error(t, json.Unmarshal([]byte(`[0.5]`), &e))
		assert.Error(t, json.Unmarshal([]byte(`{"happy":"very"}`), &e))
	})

	t.Run("Round Trip Keeps Order", func(t *testing.T) {
		e := Expressions{{Label: "neutral", Score: 0.5}, {Label: "happy", Score: 0.25}}
		data, err := json.Marshal(e)
		require.NoError(t, err)
		assert.JSONEq(t, `{"neutral":0.5,"happy":0.25}`, string(data))
		assert.Equal(t, `{"neutral":0.5,"happy":0.25}`, string(data))
	})

	t.Run("Dominant", func(t *testing.T) {
		tests := []struct {
			name     string
			input    Expressions
			expected string
			ok       bool
		}{
			{"Highest Score", Expressions{{"happy", 0.9}, {"sad", 0.05}, {"neutral", 0.05}}, "happy", true},
			{"Later Winner", Expressions{{"neutral", 0.2}, {"surprised", 0.7}}, "surprised", true},
			{"Tie Keeps First", Expressions{{"sad", 0.5}, {"happy", 0.5}}, "sad", true},
			{"Empty", Expressions{}, "", false},
		}

		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				got, ok := tt.input.Dominant()
				assert.Equal(t, tt.ok, ok)
				assert.Equal(t, tt.expected, got.Label)
			})
		}
	})
}
