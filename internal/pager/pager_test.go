package pager

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestSize(t *testing.T) {
	require.EqualValues(t, 20, Size(0))
	require.EqualValues(t, 1, Size(1))
	require.EqualValues(t, 100, Size(100))
	require.EqualValues(t, 250, Size(250))
	require.EqualValues(t, 250, Size(9999))
}

func TestCursorRoundTrip(t *testing.T) {
	in := &Cursor{
		ID:   "41",
		Time: time.Date(2025, time.June, 30, 12, 30, 0, 0, time.UTC),
	}

	token := EncodeCursor(in)
	require.NotEmpty(t, token)

	out, err := DecodeCursor(token)
	require.NoError(t, err)
	require.Equal(t, in.ID, out.ID)
	require.True(t, in.Time.Equal(out.Time))
}

func TestDecodeCursorRejectsGarbage(t *testing.T) {
	_, err := DecodeCursor("not a token")
	require.Error(t, err)

	_, err = DecodeCursor("bm90IGpzb24")
	require.Error(t, err)
}
