package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"os"
	"os/signal"
	"syscall"

	"github.com/Leiguo924/landsat-dl/internal/adapters/m2m"
	"github.com/Leiguo924/landsat-dl/internal/bands"
	"github.com/Leiguo924/landsat-dl/internal/config"
	"github.com/Leiguo924/landsat-dl/internal/exitcode"
	"github.com/Leiguo924/landsat-dl/internal/locator"
	"github.com/Leiguo924/landsat-dl/internal/model"
	"github.com/Leiguo924/landsat-dl/internal/scene"
	"github.com/Leiguo924/landsat-dl/internal/storage"
	"github.com/Leiguo924/landsat-dl/internal/transfer"
)

func main() {
	// Create a cancellable context (for graceful shutdown)
	ctx, cancel := signal.NotifyContext(context.Background(),
		syscall.SIGINT, syscall.SIGTERM)

	err := newRootCmd().ExecuteContext(ctx)
	cancel()
	if err != nil {
		slog.Error("application error", "error", err)
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(exitCodeFor(err))
	}
}

// usageError marks a problem with the command line itself.
type usageError struct {
	err error
}

func (e *usageError) Error() string { return e.err.Error() }

func (e *usageError) Unwrap() error { return e.err }

// exitCodeFor maps an error to a process exit status.
func exitCodeFor(err error) int {
	var (
		usage       *usageError
		missingVar  *config.ErrMissingRequiredEnvVar
		parseErr    *scene.ParseError
		satErr      *scene.UnsupportedSatelliteError
		unresolved  *scene.UnresolvedIdentifierError
		bandErr     *bands.InvalidBandError
		datasetErr  *model.UnsupportedDatasetError
		storageErr  *storage.Error
		malformed   *m2m.MalformedResponseError
		downloadErr *transfer.DownloadError
		timeoutErr  *transfer.TimeoutError
		netErr      net.Error
		authErr     *m2m.AuthenticationError
		clientErr   *m2m.ClientError
		unavailable *locator.UnavailableProductError
	)

	switch {
	case err == nil:
		return exitcode.Success
	case errors.As(err, &usage), errors.As(err, &missingVar),
		errors.As(err, &parseErr), errors.As(err, &satErr), errors.As(err, &unresolved),
		errors.As(err, &bandErr), errors.As(err, &datasetErr):
		return exitcode.ConfigError
	case errors.As(err, &storageErr):
		return exitcode.StorageError
	case errors.As(err, &malformed), errors.As(err, &downloadErr):
		return exitcode.DataError
	case errors.As(err, &timeoutErr), errors.As(err, &netErr):
		return exitcode.NetworkError
	case errors.As(err, &authErr), errors.As(err, &clientErr), errors.As(err, &unavailable):
		return exitcode.APIError
	default:
		return exitcode.ApplicationError
	}
}
