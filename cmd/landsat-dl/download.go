package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/Leiguo924/landsat-dl/internal/adapters/m2m"
	"github.com/Leiguo924/landsat-dl/internal/bands"
	"github.com/Leiguo924/landsat-dl/internal/batch"
	"github.com/Leiguo924/landsat-dl/internal/config"
	"github.com/Leiguo924/landsat-dl/internal/locator"
	"github.com/Leiguo924/landsat-dl/internal/model"
	"github.com/Leiguo924/landsat-dl/internal/progress"
	"github.com/Leiguo924/landsat-dl/internal/storage"
	"github.com/Leiguo924/landsat-dl/internal/transfer"
)

type downloadFlags struct {
	configPath  string
	username    string
	token       string
	dataset     string
	output      string
	timeout     int
	skip        bool
	bands       []string
	list        string
	landsatlook bool
}

func newDownloadCmd() *cobra.Command {
	f := &downloadFlags{}

	cmd := &cobra.Command{
		Use:   "download [scenes...]",
		Short: "Download one or several scenes",
		Long: `Downloads Landsat scenes given as product identifiers
(LC08_L1TP_042034_20130101_20170310_01_T1) or scene identifiers
(LC80420342013001LGN01). Files are written to <output>/<path><row>/.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDownload(cmd, args, f)
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&f.configPath, "config", "", "path to a TOML configuration file")
	flags.StringVarP(&f.username, "username", "u", "", "EarthExplorer username (env M2M_USERNAME or LANDSATXPLORE_USERNAME)")
	flags.StringVarP(&f.token, "token", "p", "", "M2M application token (env M2M_TOKEN or LANDSATXPLORE_PASSWORD)")
	flags.StringVarP(&f.dataset, "dataset", "d", "", "pin the dataset instead of guessing it from the identifier")
	flags.StringVarP(&f.output, "output", "o", ".", "output directory")
	flags.IntVarP(&f.timeout, "timeout", "t", 300, "download timeout in seconds")
	flags.BoolVar(&f.skip, "skip", false, "accept complete existing files and print their paths")
	flags.StringSliceVarP(&f.bands, "bands", "b", []string{bands.RequestAll}, `bands to download: "all", "single" or band numbers`)
	flags.StringVar(&f.list, "list", "", "identifier list (.csv with a display_id column, or one per line)")
	flags.BoolVar(&f.landsatlook, "landsatlook", false, "download the full-resolution browse image instead of the product")

	return cmd
}

func runDownload(cmd *cobra.Command, args []string, f *downloadFlags) error {
	ctx := cmd.Context()

	cfg, err := config.Load(f.configPath)
	if err != nil {
		return &usageError{err: err}
	}
	if cmd.Flags().Changed("username") {
		cfg.Username = f.username
	}
	if cmd.Flags().Changed("token") {
		cfg.Token = f.token
	}
	if cmd.Flags().Changed("output") {
		cfg.OutputDir = f.output
	}
	if cmd.Flags().Changed("timeout") {
		cfg.Timeout = time.Duration(f.timeout) * time.Second
	}
	if err := cfg.RequireCredentials(); err != nil {
		return &usageError{err: err}
	}

	identifiers := args
	if f.list != "" {
		identifiers, err = readList(f.list)
		if err != nil {
			return &usageError{err: err}
		}
	}
	if len(identifiers) == 0 {
		return &usageError{err: errors.New("at least one scene identifier or --list is required")}
	}

	dataset := model.Dataset(f.dataset)
	if dataset != "" {
		if err := dataset.Validate(); err != nil {
			return err
		}
	}

	representation := model.RepresentationBundle
	if f.landsatlook {
		representation = model.RepresentationBrowse
	}

	runID, err := model.NewRunID()
	if err != nil {
		return err
	}
	slog.SetDefault(slog.Default().With("run_id", runID.String()))

	var objectStorage batch.ObjectStorage
	if cfg.MirrorEnabled() {
		minioClient, err := storage.NewMinIOClient(ctx, storage.MinIOConfig{
			Endpoint:  cfg.MinIOEndpoint,
			AccessKey: cfg.MinIOAccessKey,
			SecretKey: cfg.MinIOSecretKey,
			Bucket:    cfg.MinIOBucket,
			UseSSL:    cfg.MinIOUseSSL,
		})
		if err != nil {
			return err
		}
		objectStorage = minioClient
	}

	client := m2m.NewClient(cfg.M2MBaseURL, cfg.Username, cfg.Token)
	svc := batch.NewService(client, client, locator.New(client), transfer.NewDownloader(), objectStorage)

	session, err := client.Login(ctx)
	if err != nil {
		return err
	}

	opts := batch.Options{
		Dataset:        dataset,
		OutputDir:      cfg.OutputDir,
		Timeout:        cfg.Timeout,
		AllowSkip:      f.skip,
		Representation: representation,
		Bands:          f.bands,
		RunID:          runID,
	}
	if !f.skip {
		opts.Progress = func(label string) func(written, total int64) {
			return progress.NewReporter(progress.Options{Label: label, Output: cmd.ErrOrStderr()}).Update
		}
	}

	slog.InfoContext(ctx, "starting download", "identifiers", len(identifiers), "output", cfg.OutputDir, "mirror", cfg.MirrorEnabled())
	report, runErr := svc.Run(ctx, session, identifiers, opts)

	if f.skip {
		for _, r := range report.Results {
			fmt.Fprintln(cmd.OutOrStdout(), r.Path)
		}
	}

	if err := client.Logout(ctx, report.Session); err != nil {
		slog.WarnContext(ctx, "logout failed", "error", err)
	}

	if runErr != nil {
		return runErr
	}
	slog.InfoContext(ctx, "download complete", "files", len(report.Results))
	return nil
}

func readList(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open identifier list: %w", err)
	}
	defer f.Close()
	return batch.ReadIdentifiers(f)
}
