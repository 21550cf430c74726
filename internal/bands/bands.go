// Package bands maps a dataset to the band files of its product bundle and
// validates user band requests against that table.
package bands

import (
	"fmt"
	"strings"

	"github.com/Leiguo924/landsat-dl/internal/model"
)

// BandSet is an ordered list of band-file suffixes, e.g. "B4.TIF".
type BandSet []string

const (
	RequestAll    = "all"
	RequestSingle = "single"
)

var (
	tmBands = BandSet{
		"B1.TIF", "B2.TIF", "B3.TIF", "B4.TIF", "B5.TIF", "B6.TIF", "B7.TIF",
		"GCP.txt", "VER.txt", "VER.jpg", "ANG.txt", "BQA.TIF", "MTL.txt",
	}
	otBands = BandSet{
		"B1.TIF", "B2.TIF", "B3.TIF", "B4.TIF", "B5.TIF", "B6.TIF", "B7.TIF",
		"B8.TIF", "B9.TIF", "B10.TIF", "B11.TIF", "ANG.txt", "BQA.TIF", "MTL.txt",
	}
	etmBands = BandSet{
		"B1.TIF", "B2.TIF", "B3.TIF", "B4.TIF", "B5.TIF", "B6_VCID_1.TIF",
		"B6_VCID_2.TIF", "B7.TIF", "B8.TIF", "ANG.txt", "BQA.TIF", "MTL.txt",
	}
	fallbackBands = BandSet{
		"B1.TIF", "B2.TIF", "B3.TIF", "B4.TIF", "B5.TIF", "B6.TIF",
		"B6_VCID_1.TIF", "B6_VCID_2.TIF", "B7.TIF", "B8.TIF", "B9.TIF",
		"ANG.txt", "BQA.TIF", "MTL.txt",
	}
)

// InvalidBandError is returned when a band request matches nothing in the
// dataset's table.
type InvalidBandError struct {
	Dataset   model.Dataset
	Requested []string
}

func (e *InvalidBandError) Error() string {
	return fmt.Sprintf("bands: %v matches no band of dataset %s", e.Requested, e.Dataset)
}

// All returns the complete band table for the dataset. The returned slice is
// a copy and may be modified by the caller.
func All(dataset model.Dataset) BandSet {
	var table BandSet
	switch dataset.Family() {
	case model.FamilyTM:
		table = tmBands
	case model.FamilyOT:
		table = otBands
	case model.FamilyETM:
		table = etmBands
	default:
		table = fallbackBands
	}
	return append(BandSet(nil), table...)
}

// DefaultSingle returns the one band used for a quick look.
func DefaultSingle(dataset model.Dataset) BandSet {
	if dataset.Family() == model.FamilyTM {
		return BandSet{"B4.TIF"}
	}
	return BandSet{"B8.TIF"}
}

// WantsBundle reports whether the request asks for the whole product
// bundle rather than individual band files.
func WantsBundle(requested []string) bool {
	return len(requested) == 0 || strings.EqualFold(requested[0], RequestAll)
}

// Select resolves requested tokens to band suffixes. "all" and "single" are
// keywords; any other token is matched by its digits ("4", "B4", "b4.tif"),
// or by file stem when it has none ("MTL"). The result keeps table order and
// lists each entry once.
func Select(dataset model.Dataset, requested []string) (BandSet, error) {
	if WantsBundle(requested) {
		return All(dataset), nil
	}
	if strings.EqualFold(requested[0], RequestSingle) {
		return DefaultSingle(dataset), nil
	}

	var selected BandSet
	for _, band := range All(dataset) {
		for _, token := range requested {
			if matches(token, band) {
				selected = append(selected, band)
				break
			}
		}
	}
	if len(selected) == 0 {
		return nil, &InvalidBandError{Dataset: dataset, Requested: requested}
	}
	return selected, nil
}

func matches(token, band string) bool {
	want := digits(token)
	if want == "" {
		return strings.EqualFold(stem(token), stem(band)) && digits(band) == ""
	}
	return digits(band) == want || bandNumber(band) == want
}

func digits(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// bandNumber returns the digits right after the leading "B": "6" for
// B6_VCID_1.TIF, "10" for B10.TIF.
func bandNumber(band string) string {
	if !strings.HasPrefix(band, "B") {
		return ""
	}
	end := 1
	for end < len(band) && band[end] >= '0' && band[end] <= '9' {
		end++
	}
	return band[1:end]
}

func stem(s string) string {
	s = strings.TrimSpace(s)
	if i := strings.IndexByte(s, '.'); i >= 0 {
		return s[:i]
	}
	return s
}
