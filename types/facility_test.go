package types

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func ptr[T any](v T) *T { return &v }

func TestFacilityStatusEqual(t *testing.T) {
	base := FacilityStatus{
		FacilityID:    "A1",
		Name:          "City General Hospital",
		Phone:         "02-123-4567",
		ERBeds:        5,
		OperatingBeds: 2,
		WardBeds:      30,
		HasCT:         true,
		HasVentilator: true,
		LastUpdated:   "20260830100000",
		Address:       ptr("1 Main St"),
		Latitude:      ptr(37.5),
		Longitude:     ptr(127.0),
	}

	t.Run("identical values are equal", func(t *testing.T) {
		require.True(t, base.Equal(base))
	})

	t.Run("timestamp differences are ignored", func(t *testing.T) {
		other := base
		other.LastUpdated = "20260830110000"

		require.True(t, base.Equal(other))
	})

	t.Run("bed count differences are detected", func(t *testing.T) {
		other := base
		other.ERBeds = 4

		require.False(t, base.Equal(other))
	})

	t.Run("equipment flag differences are detected", func(t *testing.T) {
		other := base
		other.HasVentilator = false

		require.False(t, base.Equal(other))
	})

	t.Run("enrichment pointers compare by value", func(t *testing.T) {
		other := base
		other.Address = ptr("1 Main St")
		other.Latitude = ptr(37.5)
		other.Longitude = ptr(127.0)

		require.True(t, base.Equal(other))

		other.Address = ptr("9 Other St")
		require.False(t, base.Equal(other))
	})

	t.Run("nil and non-nil enrichment differ", func(t *testing.T) {
		other := base
		other.Address = nil

		require.False(t, base.Equal(other))
	})

	t.Run("both nil enrichment are equal", func(t *testing.T) {
		a := FacilityStatus{FacilityID: "A1"}
		b := FacilityStatus{FacilityID: "A1"}

		require.True(t, a.Equal(b))
	})

	t.Run("negative bed counts are ordinary values", func(t *testing.T) {
		a := FacilityStatus{FacilityID: "A1", ERBeds: -3}
		b := FacilityStatus{FacilityID: "A1", ERBeds: -3}

		require.True(t, a.Equal(b))
	})
}

func TestFacilityStatusEnriched(t *testing.T) {
	require.False(t, FacilityStatus{FacilityID: "A1"}.Enriched())
	require.True(t, FacilityStatus{
		FacilityID: "A1",
		Latitude:   ptr(37.5),
		Longitude:  ptr(127.0),
	}.Enriched())
}
