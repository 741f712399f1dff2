package protocol

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChairPayload_ChairNumber(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		body   string
		want   int
		wantOK bool
	}{
		{"integer", `{"chair":5}`, 5, true},
		{"integral float", `{"chair":5.0}`, 5, true},
		{"exponent", `{"chair":1e1}`, 10, true},
		{"negative", `{"chair":-3}`, -3, true},
		{"out of range stays integer", `{"chair":13}`, 13, true},
		{"fraction", `{"chair":2.5}`, 0, false},
		{"numeric string", `{"chair":"5"}`, 0, false},
		{"bool", `{"chair":true}`, 0, false},
		{"null", `{"chair":null}`, 0, false},
		{"object", `{"chair":{"n":5}}`, 0, false},
		{"missing", `{}`, 0, false},
		{"huge", `{"chair":1e20}`, 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var p ChairPayload
			require.NoError(t, json.Unmarshal([]byte(tt.body), &p))
			got, ok := p.ChairNumber()
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNewChairPayload(t *testing.T) {
	t.Parallel()

	data, err := json.Marshal(NewChairPayload(7))
	require.NoError(t, err)
	assert.JSONEq(t, `{"chair":7}`, string(data))
}
