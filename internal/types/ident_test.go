package types

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestValidGSTIN(t *testing.T) {
	require.True(t, ValidGSTIN("22AAAAA0000A1Z5"))
	require.True(t, ValidGSTIN("09ABCDE1234F2Z9"))

	require.False(t, ValidGSTIN(""))
	require.False(t, ValidGSTIN("22AAAAA0000A1Z"))
	require.False(t, ValidGSTIN("22AAAAA0000A1X5"))
	require.False(t, ValidGSTIN("2AAAAAA0000A1Z5"))
	require.False(t, ValidGSTIN("22aaaaa0000a1z5"))
}

func TestValidIFSC(t *testing.T) {
	require.True(t, ValidIFSC("SBIN0001234"))
	require.True(t, ValidIFSC("hdfc0004321"))

	require.False(t, ValidIFSC(""))
	require.False(t, ValidIFSC("SBIN001234"))
	require.False(t, ValidIFSC("SB1N0001234"))
	require.False(t, ValidIFSC("SBIN0001234X"))
}
