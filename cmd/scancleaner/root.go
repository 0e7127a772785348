package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"github.com/wb-go/wbf/retry"
	"github.com/wb-go/wbf/zlog"

	"scancleaner/internal/config"
	"scancleaner/internal/model"
	"scancleaner/internal/processor"
	"scancleaner/internal/service/cleanup"
	"scancleaner/internal/storage/file"
	"scancleaner/internal/storage/object"
)

func newRootCommand() *cobra.Command {
	var (
		configFlag string
		srcPrefix  string
		destPrefix string
		imgSize    int
		binThresh  int
	)

	cmd := &cobra.Command{
		Use:           "scancleaner",
		Short:         "Batch cleanup of scanned JPEG pages",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(configFlag)
			if err != nil {
				return err
			}

			// Config supplies the defaults; flags override per run.
			params := model.Params{
				SrcPrefix:    srcPrefix,
				DestPrefix:   destPrefix,
				TargetSize:   cfg.Pipeline.ImgSize,
				BinThreshold: cfg.Pipeline.BinThresh,
			}
			if cmd.Flags().Changed("img-size") {
				params.TargetSize = imgSize
			}
			if cmd.Flags().Changed("bin-thresh") {
				params.BinThreshold = binThresh
			}

			return run(cmd.Context(), cfg, params)
		},
	}

	cmd.Flags().StringVar(&srcPrefix, "src-prefix", "", "subdirectory name under the input root")
	cmd.Flags().StringVar(&destPrefix, "dest-prefix", "", "subdirectory name under the output root")
	cmd.Flags().IntVar(&imgSize, "img-size", model.DefaultTargetSize, "target resize basis in pixels")
	cmd.Flags().IntVar(&binThresh, "bin-thresh", model.DefaultBinThreshold, "global binary threshold (0-255)")
	cmd.Flags().StringVarP(&configFlag, "config", "c", "", "configuration file path")

	_ = cmd.MarkFlagRequired("src-prefix")
	_ = cmd.MarkFlagRequired("dest-prefix")

	return cmd
}

// run stages input if a bucket is configured, processes the batch, and
// stages output back. It returns an error when any file failed so the
// process exits non-zero.
func run(ctx context.Context, cfg *config.Config, params model.Params) error {
	job := model.Job{
		ID:        uuid.New(),
		SourceDir: cfg.Paths.Source(params.SrcPrefix),
		DestDir:   cfg.Paths.Dest(params.DestPrefix),
		Params:    params,
	}

	// Retry strategy for staging transfers; the pipeline itself never
	// retries.
	strategy := retry.Strategy{
		Attempts: cfg.Retry.Attempts,
		Delay:    cfg.Retry.Delay,
		Backoff:  cfg.Retry.Backoff,
	}

	var staging *object.Storage
	if cfg.Storage.Enabled {
		var err error
		staging, err = object.NewStorage(
			ctx,
			cfg.Storage.Endpoint,
			cfg.Storage.AccessKey,
			cfg.Storage.SecretKey,
			cfg.Storage.BucketName,
			cfg.Storage.UseSSL,
			strategy,
		)
		if err != nil {
			return fmt.Errorf("failed to connect to storage: %w", err)
		}

		if err := staging.FetchPrefix(ctx, params.SrcPrefix, job.SourceDir); err != nil {
			return err
		}
	}

	service := cleanup.NewService(file.NewStorage(), processor.New())

	report, err := service.Run(ctx, job)
	if err != nil {
		return err
	}

	if staging != nil {
		if err := staging.StorePrefix(ctx, job.DestDir, params.DestPrefix); err != nil {
			return err
		}
	}

	failed := report.Failed()
	zlog.Logger.Info().
		Str("run_id", report.RunID.String()).
		Int("processed", report.Processed()).
		Int("failed", len(failed)).
		Msg("batch finished")

	if len(failed) > 0 {
		names := make([]string, 0, len(failed))
		for _, f := range failed {
			names = append(names, f.Filename)
		}
		return fmt.Errorf("%d of %d files failed: %s", len(failed), len(report.Results), strings.Join(names, ", "))
	}

	return nil
}
