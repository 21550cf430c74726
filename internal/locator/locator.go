package locator

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/Leiguo924/landsat-dl/internal/bands"
	"github.com/Leiguo924/landsat-dl/internal/model"
)

// Offering is one downloadable product of a scene as listed by the catalog.
// Per-band products of a bundle appear in Secondary.
type Offering struct {
	ID          string
	EntityID    string
	DisplayID   string
	ProductName string
	Available   bool
	Size        int64
	Secondary   []Offering
}

// DownloadURLs holds the outcome of a download request. Preparing URLs point
// at products that are still being staged.
type DownloadURLs struct {
	Available []string
	Preparing []string
}

// Catalog is the remote catalog the locator queries.
type Catalog interface {
	DownloadOptions(ctx context.Context, s *model.Session, dataset model.Dataset, entityID string) ([]Offering, error)
	RequestDownload(ctx context.Context, s *model.Session, ref model.ProductReference) (DownloadURLs, error)
}

// Request describes what to locate for one scene.
type Request struct {
	Dataset        model.Dataset
	EntityID       string
	DisplayID      string
	Representation model.Representation
	Bundle         bool
	Bands          bands.BandSet
}

// Locator picks concrete catalog products for a scene.
type Locator struct {
	catalog Catalog
}

func New(catalog Catalog) *Locator {
	return &Locator{catalog: catalog}
}

// Locate returns the references to download for req. An empty result is
// not an error: products that are not available yet, or bands missing from
// the catalog, are skipped.
func (l *Locator) Locate(ctx context.Context, s *model.Session, req Request) ([]model.ProductReference, error) {
	offerings, err := l.catalog.DownloadOptions(ctx, s, req.Dataset, req.EntityID)
	if err != nil {
		return nil, fmt.Errorf("download options: %w", err)
	}

	productName := req.Representation.ProductName(req.Dataset)
	offering, ok := findOffering(offerings, productName)
	if !ok {
		slog.WarnContext(ctx, "no offering for product", "entity_id", req.EntityID, "product_name", productName)
		return nil, nil
	}

	if req.Bundle {
		if !offering.Available {
			slog.WarnContext(ctx, "product not available", "entity_id", req.EntityID, "product_id", offering.ID)
			return nil, nil
		}
		return []model.ProductReference{{
			EntityID:  offering.EntityID,
			ProductID: offering.ID,
			DisplayID: offering.DisplayID,
		}}, nil
	}

	var refs []model.ProductReference
	for _, band := range req.Bands {
		want := req.DisplayID + "_" + band
		sub, found := findSecondary(offering.Secondary, want)
		switch {
		case !found:
			slog.DebugContext(ctx, "band not offered", "display_id", want)
		case !sub.Available:
			slog.DebugContext(ctx, "band not available", "display_id", want)
		default:
			refs = append(refs, model.ProductReference{
				EntityID:  sub.EntityID,
				ProductID: sub.ID,
				DisplayID: sub.DisplayID,
			})
		}
	}
	return refs, nil
}

// RequestDownloadURL asks the catalog for a URL serving ref. A URL of a
// product still being prepared is returned like an available one.
func (l *Locator) RequestDownloadURL(ctx context.Context, s *model.Session, ref model.ProductReference) (string, error) {
	urls, err := l.catalog.RequestDownload(ctx, s, ref)
	if err != nil {
		return "", fmt.Errorf("download request: %w", err)
	}
	switch {
	case len(urls.Available) > 0:
		return urls.Available[0], nil
	case len(urls.Preparing) > 0:
		slog.InfoContext(ctx, "product is being prepared", "product_id", ref.ProductID, "entity_id", ref.EntityID)
		return urls.Preparing[0], nil
	default:
		return "", &UnavailableProductError{Ref: ref}
	}
}

func findOffering(offerings []Offering, productName string) (Offering, bool) {
	for _, o := range offerings {
		if o.ProductName == productName {
			return o, true
		}
	}
	return Offering{}, false
}

func findSecondary(secondary []Offering, displayID string) (Offering, bool) {
	for _, o := range secondary {
		if o.DisplayID == displayID {
			return o, true
		}
	}
	return Offering{}, false
}

// UnavailableProductError is returned when the catalog offers no URL for a
// product reference.
type UnavailableProductError struct {
	Ref model.ProductReference
}

func (e *UnavailableProductError) Error() string {
	return fmt.Sprintf("locator: could not retrieve download URL for product %s (entity %s)", e.Ref.ProductID, e.Ref.EntityID)
}
