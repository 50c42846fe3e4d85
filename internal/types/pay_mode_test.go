package types

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPayModeJSON(t *testing.T) {
	b, err := json.Marshal(PayModeCash)
	require.NoError(t, err)
	require.Equal(t, `"CASH"`, string(b))

	var p PayMode
	require.NoError(t, json.Unmarshal([]byte(`"BANK_TRANSFER"`), &p))
	require.Equal(t, PayModeBankTransfer, p)

	require.NoError(t, json.Unmarshal([]byte(`2`), &p))
	require.Equal(t, PayModeCash, p)

	require.NoError(t, json.Unmarshal([]byte(`4`), &p))
	require.Equal(t, PayModeCheque, p)

	require.Error(t, json.Unmarshal([]byte(`"CARRIER_PIGEON"`), &p))
}

func TestPayModeValid(t *testing.T) {
	require.True(t, PayModeBankTransfer.Valid())
	require.True(t, PayModeCheque.Valid())
	require.False(t, PayModeUnSpecified.Valid())
	require.False(t, PayMode(99).Valid())
}
