package main

import (
	"log/slog"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

func newRootCmd() *cobra.Command {
	var verbose bool

	root := &cobra.Command{
		Use:   "landsat-dl",
		Short: "Download Landsat scenes from USGS EarthExplorer",
		Long: `landsat-dl resolves Landsat scene and product identifiers to their
catalog dataset and downloads product bundles, single bands or browse
images through the USGS M2M API.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			level := slog.LevelInfo
			if verbose {
				level = slog.LevelDebug
			}
			slog.SetDefault(slog.New(slog.NewJSONHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level})))

			if err := godotenv.Load(); err != nil {
				slog.Debug("no .env file loaded", "error", err)
			}
		},
	}
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")

	root.AddCommand(newDownloadCmd())
	return root
}
