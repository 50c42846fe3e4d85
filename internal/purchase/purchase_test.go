package purchase

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCategoryJSON(t *testing.T) {
	b, err := json.Marshal(CategoryMaterial)
	require.NoError(t, err)
	require.Equal(t, `"MATERIAL"`, string(b))

	var c Category
	require.NoError(t, json.Unmarshal([]byte(`"CONSUMABLE"`), &c))
	require.Equal(t, CategoryConsumable, c)

	require.NoError(t, json.Unmarshal([]byte(`3`), &c))
	require.Equal(t, CategoryEquipment, c)

	require.NoError(t, json.Unmarshal([]byte(`5`), &c))
	require.Equal(t, CategoryOther, c)

	require.Error(t, json.Unmarshal([]byte(`"FURNITURE"`), &c))
}

func TestCategoryValid(t *testing.T) {
	require.True(t, CategoryMaterial.Valid())
	require.True(t, CategoryOther.Valid())
	require.False(t, CategoryUnSpecified.Valid())
	require.False(t, Category(42).Valid())
}
