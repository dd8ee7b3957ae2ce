package canonjson

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMarshalSortsKeysAndCompacts(t *testing.T) {
	encoded, err := Marshal(map[string]any{
		"b": 1,
		"a": []any{true, nil, "x"},
	})
	require.NoError(t, err)
	assert.Equal(t, `{"a":[true,null,"x"],"b":1}`, string(encoded))
}

func TestMarshalEscapesNonASCII(t *testing.T) {
	encoded, err := Marshal(map[string]any{"name": "andré"})
	require.NoError(t, err)
	assert.Equal(t, `{"name":"andré"}`, string(encoded))
}

func TestMarshalPreservesNumberForm(t *testing.T) {
	encoded, err := Marshal(map[string]any{"drops": int64(9_223_372_036_854_775_807)})
	require.NoError(t, err)
	assert.Equal(t, `{"drops":9223372036854775807}`, string(encoded))
}

func TestMarshalAppliesStructTags(t *testing.T) {
	type payload struct {
		TxHash string `json:"tx_hash"`
		Amount int64  `json:"amount_drops"`
	}
	encoded, err := Marshal(payload{TxHash: "AB", Amount: 5})
	require.NoError(t, err)
	assert.Equal(t, `{"amount_drops":5,"tx_hash":"AB"}`, string(encoded))
}

func TestHashSHA256Deterministic(t *testing.T) {
	first, err := HashSHA256(map[string]any{"k": "v", "n": 2})
	require.NoError(t, err)
	second, err := HashSHA256(map[string]any{"n": 2, "k": "v"})
	require.NoError(t, err)
	assert.Equal(t, first, second)
	assert.Len(t, first, 64)

	different, err := HashSHA256(map[string]any{"n": 3, "k": "v"})
	require.NoError(t, err)
	assert.NotEqual(t, first, different)
}

func TestToObjectRejectsNonObjects(t *testing.T) {
	_, err := ToObject([]string{"not", "an", "object"})
	assert.Error(t, err)

	object, err := ToObject(map[string]any{"detail": "ok"})
	require.NoError(t, err)
	assert.Equal(t, "ok", object["detail"])
}
