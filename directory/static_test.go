package directory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/arloliu/bedwatch/types"
)

func TestStatic(t *testing.T) {
	dir := NewStatic([]types.DirectoryEntry{
		{Name: "City General Hospital", Address: "1 Main St", Latitude: 37.5, Longitude: 127.0},
		{Name: "East Medical Center", Address: "2 East Rd", Latitude: 35.1, Longitude: 129.0},
	})

	t.Run("derives normalized names", func(t *testing.T) {
		entries, err := dir.LookupBatch(context.Background(), []string{"CityGeneralHospital"})
		require.NoError(t, err)
		require.Len(t, entries, 1)
		require.Equal(t, "City General Hospital", entries[0].Name)
		require.Equal(t, "CityGeneralHospital", entries[0].NormalizedName)
	})

	t.Run("returns only requested names", func(t *testing.T) {
		entries, err := dir.LookupBatch(context.Background(), []string{"EastMedicalCenter", "NoSuchPlace"})
		require.NoError(t, err)
		require.Len(t, entries, 1)
		require.Equal(t, "East Medical Center", entries[0].Name)
	})

	t.Run("empty query returns nothing", func(t *testing.T) {
		entries, err := dir.LookupBatch(context.Background(), nil)
		require.NoError(t, err)
		require.Empty(t, entries)
	})

	t.Run("duplicate normalized names produce multiple entries", func(t *testing.T) {
		twins := NewStatic([]types.DirectoryEntry{
			{Name: "Twin Hospital", Address: "1 North St"},
			{Name: "Twin  Hospital", Address: "9 South St"},
		})

		entries, err := twins.LookupBatch(context.Background(), []string{"TwinHospital"})
		require.NoError(t, err)
		require.Len(t, entries, 2)
	})

	t.Run("update replaces the entry set", func(t *testing.T) {
		dir := NewStatic([]types.DirectoryEntry{
			{Name: "Old Hospital", Address: "1 Old St"},
		})

		dir.Update([]types.DirectoryEntry{
			{Name: "New Hospital", Address: "1 New St"},
		})

		entries, err := dir.LookupBatch(context.Background(), []string{"OldHospital", "NewHospital"})
		require.NoError(t, err)
		require.Len(t, entries, 1)
		require.Equal(t, "New Hospital", entries[0].Name)
	})
}
