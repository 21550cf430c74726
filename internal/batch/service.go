package batch

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/Leiguo924/landsat-dl/internal/bands"
	"github.com/Leiguo924/landsat-dl/internal/locator"
	"github.com/Leiguo924/landsat-dl/internal/model"
	"github.com/Leiguo924/landsat-dl/internal/scene"
	"github.com/Leiguo924/landsat-dl/internal/storage"
	"github.com/Leiguo924/landsat-dl/internal/transfer"
)

// Authenticator acquires a fresh catalog session.
type Authenticator interface {
	Login(ctx context.Context) (*model.Session, error)
}

// EntityResolver maps a product identifier to the catalog entity id.
type EntityResolver interface {
	EntityID(ctx context.Context, s *model.Session, dataset model.Dataset, displayID string) (string, error)
}

// ProductLocator picks products and download URLs for a scene.
type ProductLocator interface {
	Locate(ctx context.Context, s *model.Session, req locator.Request) ([]model.ProductReference, error)
	RequestDownloadURL(ctx context.Context, s *model.Session, ref model.ProductReference) (string, error)
}

// Downloader writes a URL to a local file.
type Downloader interface {
	Fetch(ctx context.Context, url, destDir string, opts transfer.FetchOptions) (model.DownloadResult, error)
}

// ObjectStorage mirrors downloaded files.
type ObjectStorage interface {
	Exists(ctx context.Context, key string, size int64) (bool, error)
	Put(ctx context.Context, key string, data io.Reader, size int64, runID model.RunID) error
}

// Options controls one batch run.
type Options struct {
	// Dataset pins the dataset for every identifier. Empty means guess it.
	Dataset        model.Dataset
	OutputDir      string
	Timeout        time.Duration
	AllowSkip      bool
	Representation model.Representation
	Bands          []string
	RunID          model.RunID

	// Progress, when set, returns the progress callback for one product.
	Progress func(label string) func(written, total int64)
}

// Report is the outcome of a run. Session is the last live session, which
// may differ from the one passed in.
type Report struct {
	Results  []model.DownloadResult
	Failures []Failure
	Session  *model.Session
}

// Service drives identifiers through parse, locate, download and mirror.
type Service struct {
	auth       Authenticator
	entities   EntityResolver
	locator    ProductLocator
	downloader Downloader
	storage    ObjectStorage
	now        func() time.Time
}

// NewService wires the batch pipeline. objectStorage may be nil to disable
// mirroring.
func NewService(auth Authenticator, entities EntityResolver, loc ProductLocator, downloader Downloader, objectStorage ObjectStorage) *Service {
	return &Service{
		auth:       auth,
		entities:   entities,
		locator:    loc,
		downloader: downloader,
		storage:    objectStorage,
		now:        time.Now,
	}
}

// Run processes identifiers in order. A failing identifier does not stop the
// run; its error is collected and a *BatchError is returned at the end.
// Login failures and context cancellation stop the run immediately.
func (s *Service) Run(ctx context.Context, session *model.Session, identifiers []string, opts Options) (Report, error) {
	report := Report{Session: session}

	if opts.Dataset != "" {
		if err := opts.Dataset.Validate(); err != nil {
			return report, err
		}
	}
	if opts.Representation == "" {
		opts.Representation = model.RepresentationBundle
	}
	if err := opts.Representation.Validate(); err != nil {
		return report, err
	}
	if s.storage != nil {
		if err := opts.RunID.Validate(); err != nil {
			return report, err
		}
	}

	for _, id := range identifiers {
		if err := ctx.Err(); err != nil {
			return report, err
		}

		if !report.Session.Alive(s.now()) {
			slog.InfoContext(ctx, "session expired, logging in again")
			fresh, err := s.auth.Login(ctx)
			if err != nil {
				return report, fmt.Errorf("login: %w", err)
			}
			report.Session = fresh
		}

		results, err := s.runOne(ctx, report.Session, id, opts)
		report.Results = append(report.Results, results...)
		if err != nil {
			if ctx.Err() != nil {
				return report, err
			}
			slog.ErrorContext(ctx, "identifier failed", "identifier", id, "error", err)
			report.Failures = append(report.Failures, Failure{Identifier: id, Err: err})
		}
	}

	if len(report.Failures) > 0 {
		return report, &BatchError{Total: len(identifiers), Failures: report.Failures}
	}
	return report, nil
}

func (s *Service) runOne(ctx context.Context, session *model.Session, id string, opts Options) ([]model.DownloadResult, error) {
	dataset, path, row, err := scene.Guess(id)
	if err != nil {
		return nil, err
	}
	if opts.Dataset != "" {
		dataset = opts.Dataset
	}
	pathRow := path + row
	destDir := filepath.Join(opts.OutputDir, pathRow)

	bundle := bands.WantsBundle(opts.Bands)
	var bandSet bands.BandSet
	if !bundle {
		bandSet, err = bands.Select(dataset, opts.Bands)
		if err != nil {
			return nil, err
		}
	}

	entityID := id
	if scene.Classify(id) == scene.ProductForm {
		entityID, err = s.entities.EntityID(ctx, session, dataset, id)
		if err != nil {
			return nil, fmt.Errorf("entity id: %w", err)
		}
	}

	slog.InfoContext(ctx, "processing identifier", "identifier", id, "dataset", dataset, "entity_id", entityID, "dest", destDir)

	refs, err := s.locator.Locate(ctx, session, locator.Request{
		Dataset:        dataset,
		EntityID:       entityID,
		DisplayID:      id,
		Representation: opts.Representation,
		Bundle:         bundle,
		Bands:          bandSet,
	})
	if err != nil {
		return nil, fmt.Errorf("locate: %w", err)
	}
	if len(refs) == 0 {
		slog.WarnContext(ctx, "nothing available to download", "identifier", id, "dataset", dataset)
		return nil, nil
	}

	var results []model.DownloadResult
	for _, ref := range refs {
		url, err := s.locator.RequestDownloadURL(ctx, session, ref)
		if err != nil {
			return results, err
		}

		fetchOpts := transfer.FetchOptions{Timeout: opts.Timeout, AllowSkip: opts.AllowSkip}
		if opts.Progress != nil {
			fetchOpts.Progress = opts.Progress(ref.DisplayID)
		}
		result, err := s.downloader.Fetch(ctx, url, destDir, fetchOpts)
		if err != nil {
			return results, fmt.Errorf("fetch %s: %w", ref.DisplayID, err)
		}
		result.Identifier = id
		results = append(results, result)

		if s.storage != nil {
			if err := s.mirror(ctx, dataset, pathRow, result, opts.RunID); err != nil {
				return results, err
			}
		}
	}
	return results, nil
}

func (s *Service) mirror(ctx context.Context, dataset model.Dataset, pathRow string, result model.DownloadResult, runID model.RunID) error {
	key := storage.ObjectKey{
		Dataset:  dataset,
		PathRow:  pathRow,
		Filename: filepath.Base(result.Path),
	}.Key()

	exists, err := s.storage.Exists(ctx, key, result.Size)
	if err != nil {
		return fmt.Errorf("mirror: %w", err)
	}
	if exists {
		slog.DebugContext(ctx, "already mirrored", "key", key)
		return nil
	}

	f, err := os.Open(result.Path)
	if err != nil {
		return fmt.Errorf("mirror: %w", err)
	}
	defer f.Close()

	if err := s.storage.Put(ctx, key, f, result.Size, runID); err != nil {
		return fmt.Errorf("mirror: %w", err)
	}
	slog.InfoContext(ctx, "mirrored to object storage", "key", key, "run_id", runID)
	return nil
}
