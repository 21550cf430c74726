// Package transfer streams remote files to disk with bounded connection
// retries, skip-if-complete detection and an idle timeout.
package transfer

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/Leiguo924/landsat-dl/internal/model"
)

var errStalled = errors.New("transfer stalled")

// FetchOptions tunes a single Fetch call.
type FetchOptions struct {
	// Timeout bounds the wait for response headers and any gap between body
	// reads. Zero disables it.
	Timeout time.Duration

	// AllowSkip marks that the caller accepts an existing file. A complete
	// file is skipped either way; an incomplete one is always re-fetched.
	AllowSkip bool

	// Progress is called after every written chunk.
	Progress func(written, total int64)
}

// Downloader fetches files over HTTP.
type Downloader struct {
	httpClient *http.Client
	userAgent  string

	// Connection retry configuration (internal)
	attempts  int
	backoff   time.Duration
	chunkSize int
}

// NewDownloader creates a Downloader with 10 connection attempts spaced by
// 500ms and 64 KiB write chunks.
func NewDownloader() *Downloader {
	return &Downloader{
		httpClient: &http.Client{},
		userAgent:  "landsat-dl",
		attempts:   10,
		backoff:    500 * time.Millisecond,
		chunkSize:  64 * 1024,
	}
}

// attempt is a live response together with the context that governs its
// body.
type attempt struct {
	resp   *http.Response
	ctx    context.Context
	cancel context.CancelCauseFunc
	timer  *time.Timer
}

func (a *attempt) close() {
	if a.timer != nil {
		a.timer.Stop()
	}
	a.resp.Body.Close()
	a.cancel(nil)
}

// Fetch downloads url into destDir under the filename announced by the
// server. The returned path always refers to a complete file.
func (d *Downloader) Fetch(ctx context.Context, url, destDir string, opts FetchOptions) (model.DownloadResult, error) {
	a, err := d.connect(ctx, url, opts.Timeout)
	if err != nil {
		return model.DownloadResult{}, err
	}
	defer a.close()

	resp := a.resp
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return model.DownloadResult{}, &DownloadError{URL: url, Reason: fmt.Sprintf("unexpected status %s", resp.Status)}
	}
	if resp.ContentLength < 0 {
		return model.DownloadResult{}, &DownloadError{URL: url, Reason: "response has no Content-Length"}
	}
	filename, err := filenameFrom(resp.Header.Get("Content-Disposition"))
	if err != nil {
		return model.DownloadResult{}, &DownloadError{URL: url, Reason: err.Error()}
	}

	size := resp.ContentLength
	path := filepath.Join(destDir, filename)

	if info, err := os.Stat(path); err == nil && info.Mode().IsRegular() {
		if info.Size() == size {
			slog.InfoContext(ctx, "file already exists", "path", path, "size", size)
			return model.DownloadResult{Path: path, Size: size, Skipped: true}, nil
		}
		slog.InfoContext(ctx, "existing file incomplete, fetching again",
			"path", path, "have", info.Size(), "want", size, "allow_skip", opts.AllowSkip)
	}

	if err := os.MkdirAll(destDir, 0o755); err != nil {
		return model.DownloadResult{}, fmt.Errorf("create destination: %w", err)
	}

	slog.InfoContext(ctx, "downloading", "filename", filename, "size", humanize.Bytes(uint64(size)))
	written, err := d.write(a, path, size, opts)
	if err != nil {
		if errors.Is(context.Cause(a.ctx), errStalled) {
			return model.DownloadResult{}, &TimeoutError{Timeout: opts.Timeout, URL: url}
		}
		if errors.Is(err, io.ErrUnexpectedEOF) {
			return model.DownloadResult{}, &DownloadError{URL: url, Reason: fmt.Sprintf("body ended after %d of %d bytes", written, size)}
		}
		return model.DownloadResult{}, err
	}
	if written != size {
		return model.DownloadResult{}, &DownloadError{URL: url, Reason: fmt.Sprintf("body ended after %d of %d bytes", written, size)}
	}

	slog.InfoContext(ctx, "download complete", "path", path, "size", size)
	return model.DownloadResult{Path: path, Size: size}, nil
}

func (d *Downloader) write(a *attempt, path string, size int64, opts FetchOptions) (int64, error) {
	f, err := os.Create(path)
	if err != nil {
		return 0, fmt.Errorf("create file: %w", err)
	}

	pw := &ProgressWriter{Writer: f, Total: size, OnUpdate: opts.Progress}
	body := &idleReader{r: a.resp.Body, timer: a.timer, timeout: opts.Timeout}
	_, copyErr := io.CopyBuffer(pw, body, make([]byte, d.chunkSize))
	closeErr := f.Close()

	if copyErr != nil {
		return pw.Written, copyErr
	}
	if closeErr != nil {
		return pw.Written, fmt.Errorf("close file: %w", closeErr)
	}
	return pw.Written, nil
}

// connect issues the GET, retrying transport failures up to d.attempts
// times. The last failure is returned as is.
func (d *Downloader) connect(ctx context.Context, url string, timeout time.Duration) (*attempt, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", d.userAgent)

	var lastErr error
	for i := 1; i <= d.attempts; i++ {
		a, err := d.try(req, timeout)
		if err == nil {
			return a, nil
		}
		lastErr = err
		if ctx.Err() != nil {
			return nil, lastErr
		}

		slog.WarnContext(ctx, "connection attempt failed", "attempt", i, "max_attempts", d.attempts, "error", err)
		if i == d.attempts {
			break
		}
		select {
		case <-ctx.Done():
			return nil, lastErr
		case <-time.After(d.backoff):
		}
	}
	return nil, lastErr
}

func (d *Downloader) try(req *http.Request, timeout time.Duration) (*attempt, error) {
	ctx, cancel := context.WithCancelCause(req.Context())
	var timer *time.Timer
	if timeout > 0 {
		timer = time.AfterFunc(timeout, func() { cancel(errStalled) })
	}

	resp, err := d.httpClient.Do(req.Clone(ctx))
	if err != nil {
		if timer != nil {
			timer.Stop()
		}
		stalled := errors.Is(context.Cause(ctx), errStalled)
		cancel(nil)
		if stalled {
			return nil, &TimeoutError{Timeout: timeout, URL: req.URL.String()}
		}
		return nil, err
	}
	// Headers are in; the body gets its own idle window.
	if timer != nil {
		timer.Reset(timeout)
	}
	return &attempt{resp: resp, ctx: ctx, cancel: cancel, timer: timer}, nil
}

// filenameFrom extracts the filename parameter of a Content-Disposition
// header. Only the base name is kept.
func filenameFrom(header string) (string, error) {
	if strings.TrimSpace(header) == "" {
		return "", errors.New("response has no Content-Disposition")
	}

	var name string
	if _, params, err := mime.ParseMediaType(header); err == nil {
		name = params["filename"]
	}
	if name == "" {
		if i := strings.LastIndex(header, "="); i >= 0 {
			name = strings.Trim(strings.TrimSpace(header[i+1:]), `"`)
		}
	}

	name = filepath.Base(strings.ReplaceAll(name, `\`, "/"))
	if name == "" || name == "." || name == ".." || name == "/" {
		return "", fmt.Errorf("no filename in Content-Disposition %q", header)
	}
	return name, nil
}
