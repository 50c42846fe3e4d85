package types

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMonthJSON(t *testing.T) {
	b, err := json.Marshal(February)
	require.NoError(t, err)
	require.Equal(t, `"February"`, string(b))

	var m Month
	require.NoError(t, json.Unmarshal([]byte(`"November"`), &m))
	require.Equal(t, November, m)

	require.NoError(t, json.Unmarshal([]byte(`7`), &m))
	require.Equal(t, July, m)

	require.Error(t, json.Unmarshal([]byte(`"Smarch"`), &m))
}

func TestPeriodDaysIn(t *testing.T) {
	require.Equal(t, 30, Period{Month: April, Year: 2025}.DaysIn())
	require.Equal(t, 31, Period{Month: January, Year: 2025}.DaysIn())
	require.Equal(t, 28, Period{Month: February, Year: 2025}.DaysIn())
	require.Equal(t, 29, Period{Month: February, Year: 2024}.DaysIn())
}

func TestPeriodValid(t *testing.T) {
	require.True(t, Period{Month: June, Year: 2025}.Valid())
	require.False(t, Period{Month: 0, Year: 2025}.Valid())
	require.False(t, Period{Month: 13, Year: 2025}.Valid())
	require.False(t, Period{Month: June, Year: 1800}.Valid())
}
