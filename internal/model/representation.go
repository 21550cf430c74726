package model

import "fmt"

// Representation selects which rendering of a scene is fetched.
type Representation string

const (
	RepresentationBundle Representation = "bundle"
	RepresentationBrowse Representation = "browse"
)

const (
	browseProductName   = "Full-Resolution Browse (Natural Color) GeoTIFF"
	c1BundleProductName = "Level-1 GeoTIFF Data Product"
	l1BundleProductName = "Landsat Collection 2 Level-1 Product Bundle"
	l2BundleProductName = "Landsat Collection 2 Level-2 Product Bundle"
)

// Validate rejects unknown representations.
func (r Representation) Validate() error {
	switch r {
	case RepresentationBundle, RepresentationBrowse:
		return nil
	default:
		return fmt.Errorf("unknown representation %q", string(r))
	}
}

// ProductName returns the catalog product name offering this
// representation for the given dataset.
func (r Representation) ProductName(d Dataset) string {
	if r == RepresentationBrowse {
		return browseProductName
	}
	switch {
	case d.Collection() == "c1":
		return c1BundleProductName
	case d.Level() == "l2":
		return l2BundleProductName
	default:
		return l1BundleProductName
	}
}
