/*
Copyright © 2026 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"fmt"

	"github.com/colorboard/apiserver/config"
	"github.com/colorboard/apiserver/internal/db"
	"github.com/colorboard/apiserver/internal/services"
	"github.com/colorboard/apiserver/internal/storage"
	"github.com/colorboard/apiserver/internal/store"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	exportKeep int
	exportList bool
)

// exportCmd writes a JSON snapshot of every color record to object storage.
var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export a snapshot of all color records to object storage",
	Long: `Writes every color record, newest first, to
snapshots/colors-<timestamp>.json in the configured bucket. Usage:

	colorboard export
	colorboard export --keep 7
	colorboard export --list
`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		cfg := config.LoadConfig()

		logger, err := newLogger(cfg)
		if err != nil {
			return err
		}
		defer func() { _ = logger.Sync() }()

		snapshots, err := storage.Open(ctx, cfg.Storage)
		if err != nil {
			return fmt.Errorf("open storage: %w", err)
		}

		kv, err := db.OpenStore(ctx, cfg)
		if err != nil {
			return fmt.Errorf("open store: %w", err)
		}
		defer func() { _ = kv.Close() }()

		exporter := services.NewExportService(store.NewColorRepository(kv), snapshots)

		if exportList {
			objects, err := exporter.Snapshots(ctx)
			if err != nil {
				return err
			}
			for _, obj := range objects {
				fmt.Fprintf(cmd.OutOrStdout(), "%s\t%d\t%s\n", obj.Key, obj.Size, obj.LastModified.UTC().Format("2006-01-02T15:04:05Z"))
			}
			return nil
		}

		key, count, err := exporter.Snapshot(ctx)
		if err != nil {
			return err
		}
		logger.Info("snapshot written",
			zap.String("bucket", snapshots.Bucket()),
			zap.String("key", key),
			zap.Int("records", count),
		)

		if exportKeep > 0 {
			removed, err := exporter.Prune(ctx, exportKeep)
			if err != nil {
				return err
			}
			if len(removed) > 0 {
				logger.Info("old snapshots removed", zap.Strings("keys", removed))
			}
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(exportCmd)
	exportCmd.Flags().IntVar(&exportKeep, "keep", 0, "keep only the newest N snapshots after exporting")
	exportCmd.Flags().BoolVar(&exportList, "list", false, "list existing snapshots instead of exporting")
}
