package types

// FacilityStatus is the capacity report for one emergency-capable facility
// as observed during a single collection pass.
//
// Instances are created fresh every pass and never mutated across passes; a
// new value replaces the old one in the next Snapshot.
//
// Bed counts are signed: negative values are a valid upstream signal meaning
// "over capacity", not an error.
type FacilityStatus struct {
	// FacilityID uniquely identifies the facility within one snapshot.
	FacilityID string `json:"facilityId"`

	// Name is the facility name as reported upstream (not normalized).
	Name string `json:"name"`

	// Phone is the emergency department contact number.
	Phone string `json:"phone"`

	// ERBeds is the number of available emergency room beds.
	ERBeds int `json:"erBeds"`

	// OperatingBeds is the number of available operating room beds.
	OperatingBeds int `json:"operatingBeds"`

	// WardBeds is the number of available general ward beds.
	WardBeds int `json:"wardBeds"`

	// Equipment availability flags.
	HasCT          bool `json:"hasCt"`
	HasMRI         bool `json:"hasMri"`
	HasAngiography bool `json:"hasAngiography"`
	HasVentilator  bool `json:"hasVentilator"`
	HasAmbulance   bool `json:"hasAmbulance"`

	// LastUpdated is an opaque upstream timestamp string. The differ may
	// overwrite it with the collection pass wall-clock time when the record
	// changed relative to the prior pass.
	LastUpdated string `json:"lastUpdated"`

	// Enrichment fields, nil until the record is joined to the directory.
	Address   *string  `json:"address"`
	Latitude  *float64 `json:"latitude"`
	Longitude *float64 `json:"longitude"`
}

// Equal reports whether two facility statuses carry the same observable data.
//
// The comparison is field-wise over every field except LastUpdated. Excluding
// the timestamp is deliberate: the differ rewrites LastUpdated as part of its
// stamping policy, so including it would make every record appear changed on
// every pass and defeat change detection entirely.
func (f FacilityStatus) Equal(other FacilityStatus) bool {
	return f.FacilityID == other.FacilityID &&
		f.Name == other.Name &&
		f.Phone == other.Phone &&
		f.ERBeds == other.ERBeds &&
		f.OperatingBeds == other.OperatingBeds &&
		f.WardBeds == other.WardBeds &&
		f.HasCT == other.HasCT &&
		f.HasMRI == other.HasMRI &&
		f.HasAngiography == other.HasAngiography &&
		f.HasVentilator == other.HasVentilator &&
		f.HasAmbulance == other.HasAmbulance &&
		eqStringPtr(f.Address, other.Address) &&
		eqFloatPtr(f.Latitude, other.Latitude) &&
		eqFloatPtr(f.Longitude, other.Longitude)
}

// Enriched reports whether the record has been joined to the directory.
func (f FacilityStatus) Enriched() bool {
	return f.Latitude != nil && f.Longitude != nil
}

func eqStringPtr(a, b *string) bool {
	if a == nil || b == nil {
		return a == b
	}

	return *a == *b
}

func eqFloatPtr(a, b *float64) bool {
	if a == nil || b == nil {
		return a == b
	}

	return *a == *b
}
