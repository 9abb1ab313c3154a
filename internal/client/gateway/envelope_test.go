package gateway_test

import (
	"encoding/json"
	"testing"

	"github.com/SscSPs/treasury_backoffice/internal/client/gateway"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type item struct {
	ID     string `json:"id"`
	Amount int    `json:"amount"`
}

func TestDecodeList_AllEnvelopeShapes(t *testing.T) {
	want := []item{{ID: "A", Amount: 15000}, {ID: "B", Amount: 8500}}
	tests := []struct {
		name    string
		payload string
		kind    gateway.EnvelopeKind
	}{
		{"bare array", `[{"id":"A","amount":15000},{"id":"B","amount":8500}]`, gateway.EnvelopeBare},
		{"data envelope", `{"data":[{"id":"A","amount":15000},{"id":"B","amount":8500}]}`, gateway.EnvelopeData},
		{"success envelope", `{"success":true,"data":[{"id":"A","amount":15000},{"id":"B","amount":8500}]}`, gateway.EnvelopeSuccessData},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env, err := gateway.DecodeEnvelope(json.RawMessage(tt.payload))
			require.NoError(t, err)
			assert.Equal(t, tt.kind, env.Kind)

			got, err := gateway.DecodeList[item](json.RawMessage(tt.payload))
			require.NoError(t, err)
			assert.Equal(t, want, got)
		})
	}
}

func TestDecodeList_Empty(t *testing.T) {
	for _, payload := range []string{`[]`, `{"data":[]}`, `{"success":true,"data":[]}`, `{"data":null}`, `{"success":true}`} {
		t.Run(payload, func(t *testing.T) {
			got, err := gateway.DecodeList[item](json.RawMessage(payload))
			require.NoError(t, err)
			assert.NotNil(t, got)
			assert.Empty(t, got)
		})
	}
}

func TestDecodeList_AbsentPayload(t *testing.T) {
	got, err := gateway.DecodeList[item](nil)
	assert.ErrorIs(t, err, gateway.ErrMalformedPayload)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestDecodeList_WrongShape(t *testing.T) {
	got, err := gateway.DecodeList[item](json.RawMessage(`{"data":{"id":"A"}}`))
	assert.ErrorIs(t, err, gateway.ErrMalformedPayload)
	assert.Empty(t, got)
}

func TestDecodeEnvelope_SuccessFalse(t *testing.T) {
	_, err := gateway.DecodeEnvelope(json.RawMessage(`{"success":false,"message":"Aucun exercice ouvert"}`))

	var reqErr *gateway.RequestError
	require.ErrorAs(t, err, &reqErr)
	assert.ErrorIs(t, err, gateway.ErrRequestFailed)
	assert.Equal(t, "Aucun exercice ouvert", reqErr.Message)
}

func TestDecodeObject_AllEnvelopeShapes(t *testing.T) {
	for _, payload := range []string{
		`{"id":"A","amount":1}`,
		`{"data":{"id":"A","amount":1}}`,
		`{"success":true,"data":{"id":"A","amount":1}}`,
	} {
		t.Run(payload, func(t *testing.T) {
			got, err := gateway.DecodeObject[item](json.RawMessage(payload))
			require.NoError(t, err)
			assert.Equal(t, item{ID: "A", Amount: 1}, *got)
		})
	}
}

func TestDecodeObject_Absent(t *testing.T) {
	got, err := gateway.DecodeObject[item](nil)
	assert.ErrorIs(t, err, gateway.ErrMalformedPayload)
	assert.Nil(t, got)
}
