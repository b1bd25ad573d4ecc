package collect

import (
	"errors"
	"strings"

	"github.com/tidwall/gjson"

	"github.com/arloliu/bedwatch/types"
)

// errUndecodable marks a payload that is not valid JSON or carries records in
// no recognized shape. The collector treats it exactly like an empty page.
var errUndecodable = errors.New("undecodable page payload")

// decodePage extracts facility records from a raw page payload.
//
// Two encodings are tolerated, because the upstream format is
// partition-source-specific:
//
//   - tree-structured: {"response":{"body":{"items":{"item":[...]}}}},
//     where "item" may be an array or a single object
//   - flat-list: a top-level JSON array of records
//
// Records without a facilityId are skipped. Bed counts may arrive as numbers
// or numeric strings; equipment flags as booleans or "Y"/"N" strings.
//
// Returns:
//   - []types.FacilityStatus: Decoded records (nil when the page is empty)
//   - error: errUndecodable when the payload has no recognized shape
func decodePage(payload []byte) ([]types.FacilityStatus, error) {
	if !gjson.ValidBytes(payload) {
		return nil, errUndecodable
	}

	root := gjson.ParseBytes(payload)

	var items gjson.Result
	switch {
	case root.IsArray():
		items = root
	default:
		items = root.Get("response.body.items.item")
		if !items.Exists() {
			return nil, errUndecodable
		}
	}

	var records []types.FacilityStatus
	appendRecord := func(item gjson.Result) {
		rec, ok := decodeRecord(item)
		if ok {
			records = append(records, rec)
		}
	}

	if items.IsArray() {
		items.ForEach(func(_, item gjson.Result) bool {
			appendRecord(item)
			return true
		})
	} else if items.IsObject() {
		// Single-record pages collapse the array to a bare object.
		appendRecord(items)
	}

	return records, nil
}

// decodeRecord maps one JSON object to a FacilityStatus.
func decodeRecord(item gjson.Result) (types.FacilityStatus, bool) {
	id := item.Get("facilityId").String()
	if id == "" {
		return types.FacilityStatus{}, false
	}

	return types.FacilityStatus{
		FacilityID:     id,
		Name:           item.Get("name").String(),
		Phone:          item.Get("phone").String(),
		ERBeds:         int(item.Get("erBeds").Int()),
		OperatingBeds:  int(item.Get("operatingBeds").Int()),
		WardBeds:       int(item.Get("wardBeds").Int()),
		HasCT:          flag(item.Get("ct")),
		HasMRI:         flag(item.Get("mri")),
		HasAngiography: flag(item.Get("angiography")),
		HasVentilator:  flag(item.Get("ventilator")),
		HasAmbulance:   flag(item.Get("ambulance")),
		LastUpdated:    item.Get("lastUpdated").String(),
	}, true
}

// flag interprets an equipment availability value: JSON booleans as-is,
// "Y"/"N" style strings case-insensitively.
func flag(v gjson.Result) bool {
	if v.Type == gjson.String {
		return strings.EqualFold(v.String(), "y") || strings.EqualFold(v.String(), "true")
	}

	return v.Bool()
}
