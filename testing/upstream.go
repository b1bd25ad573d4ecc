package testing

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/arloliu/bedwatch/types"
)

// Page is one scripted upstream page: a raw payload or an injected error.
type Page struct {
	Payload []byte
	Err     error
}

// PageCall records one FetchPage invocation.
type PageCall struct {
	Partition string
	Page      int
	PageSize  int
}

// ScriptedFetcher is a PageFetcher that serves pre-scripted pages per
// partition. Pages beyond the script return an empty list, which the
// collector counts as an empty page.
type ScriptedFetcher struct {
	mu    sync.Mutex
	pages map[string][]Page
	calls []PageCall
}

var _ types.PageFetcher = (*ScriptedFetcher)(nil)

// NewScriptedFetcher creates an empty scripted fetcher.
func NewScriptedFetcher() *ScriptedFetcher {
	return &ScriptedFetcher{pages: make(map[string][]Page)}
}

// Script sets the page sequence for one partition (page 1 first).
func (f *ScriptedFetcher) Script(partition string, pages ...Page) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.pages[partition] = pages
}

// FetchPage implements types.PageFetcher.
func (f *ScriptedFetcher) FetchPage(_ context.Context, partition string, page, pageSize int) ([]byte, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.calls = append(f.calls, PageCall{Partition: partition, Page: page, PageSize: pageSize})

	script := f.pages[partition]
	if page < 1 || page > len(script) {
		return []byte(`[]`), nil
	}

	p := script[page-1]
	if p.Err != nil {
		return nil, p.Err
	}

	return p.Payload, nil
}

// Calls returns a copy of the recorded call log.
func (f *ScriptedFetcher) Calls() []PageCall {
	f.mu.Lock()
	defer f.mu.Unlock()

	return append([]PageCall(nil), f.calls...)
}

// wireRecord is the flat-list upstream encoding understood by the collector.
type wireRecord struct {
	FacilityID    string `json:"facilityId"`
	Name          string `json:"name"`
	Phone         string `json:"phone"`
	ERBeds        int    `json:"erBeds"`
	OperatingBeds int    `json:"operatingBeds"`
	WardBeds      int    `json:"wardBeds"`
	CT            bool   `json:"ct"`
	MRI           bool   `json:"mri"`
	Angiography   bool   `json:"angiography"`
	Ventilator    bool   `json:"ventilator"`
	Ambulance     bool   `json:"ambulance"`
	LastUpdated   string `json:"lastUpdated"`
}

// PagePayload builds a flat-list page payload from facility statuses.
func PagePayload(records ...types.FacilityStatus) []byte {
	wire := make([]wireRecord, 0, len(records))
	for _, r := range records {
		wire = append(wire, wireRecord{
			FacilityID:    r.FacilityID,
			Name:          r.Name,
			Phone:         r.Phone,
			ERBeds:        r.ERBeds,
			OperatingBeds: r.OperatingBeds,
			WardBeds:      r.WardBeds,
			CT:            r.HasCT,
			MRI:           r.HasMRI,
			Angiography:   r.HasAngiography,
			Ventilator:    r.HasVentilator,
			Ambulance:     r.HasAmbulance,
			LastUpdated:   r.LastUpdated,
		})
	}

	payload, err := json.Marshal(wire)
	if err != nil {
		panic(err) // wireRecord always marshals
	}

	return payload
}

// Facilities builds n distinct facility statuses with ids and names derived
// from prefix.
func Facilities(prefix string, n int) []types.FacilityStatus {
	out := make([]types.FacilityStatus, 0, n)
	for i := range n {
		out = append(out, types.FacilityStatus{
			FacilityID:  fmt.Sprintf("%s-%03d", prefix, i),
			Name:        fmt.Sprintf("%s Hospital %d", prefix, i),
			Phone:       "010-0000-0000",
			ERBeds:      5,
			WardBeds:    10,
			HasCT:       true,
			LastUpdated: "20260101000000",
		})
	}

	return out
}
