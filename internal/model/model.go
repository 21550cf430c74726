package model

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Dataset represents a catalog dataset name, e.g. landsat_ot_c2_l1.
type Dataset string

const (
	LandsatTMC2L1  Dataset = "landsat_tm_c2_l1"
	LandsatTMC2L2  Dataset = "landsat_tm_c2_l2"
	LandsatETMC2L1 Dataset = "landsat_etm_c2_l1"
	LandsatETMC2L2 Dataset = "landsat_etm_c2_l2"
	LandsatOTC2L1  Dataset = "landsat_ot_c2_l1"
	LandsatOTC2L2  Dataset = "landsat_ot_c2_l2"
)

// SupportedDatasets lists the datasets a caller may pin explicitly.
var SupportedDatasets = []Dataset{
	LandsatTMC2L1,
	LandsatTMC2L2,
	LandsatETMC2L1,
	LandsatETMC2L2,
	LandsatOTC2L1,
	LandsatOTC2L2,
}

// Family is the sensor family part of a dataset name.
type Family string

const (
	FamilyMSS Family = "mss"
	FamilyTM  Family = "tm"
	FamilyETM Family = "etm"
	FamilyOT  Family = "ot"
)

// Validate checks that the dataset is one of SupportedDatasets.
func (d Dataset) Validate() error {
	for _, s := range SupportedDatasets {
		if d == s {
			return nil
		}
	}
	return &UnsupportedDatasetError{Dataset: d}
}

// UnsupportedDatasetError is returned for a dataset name outside
// SupportedDatasets.
type UnsupportedDatasetError struct {
	Dataset Dataset
}

func (e *UnsupportedDatasetError) Error() string {
	return fmt.Sprintf("%q is not a supported dataset", string(e.Dataset))
}

// Family extracts the sensor family. Legacy landsat_8 names map to FamilyOT.
// Unknown names return an empty Family.
func (d Dataset) Family() Family {
	parts := strings.Split(string(d), "_")
	if len(parts) < 2 || parts[0] != "landsat" {
		return ""
	}
	switch parts[1] {
	case "mss":
		return FamilyMSS
	case "tm":
		return FamilyTM
	case "etm":
		return FamilyETM
	case "ot", "8", "9":
		return FamilyOT
	default:
		return ""
	}
}

// Collection returns "c1" or "c2", or "" if the name carries no collection.
func (d Dataset) Collection() string {
	for _, p := range strings.Split(string(d), "_") {
		if p == "c1" || p == "c2" {
			return p
		}
	}
	return ""
}

// Level returns the processing level suffix ("l1", "l2"); collection 1
// names have none and report "l1".
func (d Dataset) Level() string {
	parts := strings.Split(string(d), "_")
	if last := parts[len(parts)-1]; len(last) == 2 && last[0] == 'l' {
		return last
	}
	return "l1"
}

// String returns the dataset name.
func (d Dataset) String() string {
	return string(d)
}

// RunID represents a UUIDv7 identifying one batch run.
type RunID string

// NewRunID generates a fresh UUIDv7 run identifier.
func NewRunID() (RunID, error) {
	id, err := uuid.NewV7()
	if err != nil {
		return "", fmt.Errorf("generate run-id: %w", err)
	}
	return RunID(id.String()), nil
}

// Validate checks that the RunID is a valid UUIDv7.
func (r RunID) Validate() error {
	if r == "" {
		return fmt.Errorf("run-id cannot be empty")
	}
	id, err := uuid.Parse(string(r))
	if err != nil {
		return fmt.Errorf("run-id must be a valid UUID: %w", err)
	}
	if id.Version() != uuid.Version(7) {
		return fmt.Errorf("run-id must be a UUIDv7, got v%d", id.Version())
	}
	return nil
}

// String returns the run ID as a string.
func (r RunID) String() string {
	return string(r)
}

// Session is an authenticated handle on the catalog API.
// A lapsed session is replaced, never refreshed in place.
type Session struct {
	APIKey   string
	Username string
	IssuedAt time.Time
	TTL      time.Duration
}

// Alive reports whether the session can still be used at now.
func (s *Session) Alive(now time.Time) bool {
	if s == nil || s.APIKey == "" {
		return false
	}
	if s.TTL <= 0 {
		return true
	}
	return now.Before(s.IssuedAt.Add(s.TTL))
}

// ProductReference names one fetchable artifact on the catalog.
type ProductReference struct {
	EntityID  string
	ProductID string
	DisplayID string
}

// DownloadResult describes a product file on local disk.
type DownloadResult struct {
	Identifier string
	Path       string
	Size       int64
	Skipped    bool // file was already complete, nothing transferred
}
