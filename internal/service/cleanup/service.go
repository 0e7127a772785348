package cleanup

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"io"
	"path/filepath"

	"github.com/wb-go/wbf/zlog"

	"scancleaner/internal/model"
	"scancleaner/internal/processor"
)

// fileStorage defines the interface for reading the source directory and
// writing results (e.g., a local mount populated by the job layer).
type fileStorage interface {
	List(dir string) ([]string, error)
	Load(path string) (io.ReadCloser, error)
	Save(dir, filename string, src io.Reader) (string, error)
}

// pipeline defines the interface for the image cleanup chain.
type pipeline interface {
	Clean(src image.Image, params model.Params) *image.Gray
}

// Service runs one batch: every JPEG in the job's source directory is
// cleaned and written under the same name to the destination directory.
type Service struct {
	storage  fileStorage
	pipeline pipeline
}

// NewService creates a new Service with the given storage and pipeline.
func NewService(fs fileStorage, p pipeline) *Service {
	return &Service{storage: fs, pipeline: p}
}

// Run processes the job's source directory sequentially, one file at a
// time. Failures are isolated per file: a file that cannot be decoded,
// cleaned, or saved is logged and recorded in the report, and the loop
// moves on. Run itself fails only when the source directory cannot be
// listed or the context is canceled between files.
func (s *Service) Run(ctx context.Context, job model.Job) (model.Report, error) {
	report := model.Report{RunID: job.ID}

	files, err := s.storage.List(job.SourceDir)
	if err != nil {
		return report, fmt.Errorf("run %s: %w", job.ID, err)
	}

	zlog.Logger.Info().
		Str("run_id", job.ID.String()).
		Str("source", job.SourceDir).
		Int("files", len(files)).
		Msg("starting batch")

	for _, name := range files {
		if err := ctx.Err(); err != nil {
			return report, fmt.Errorf("run %s: %w", job.ID, err)
		}

		dst, err := s.processFile(job, name)
		if err != nil {
			zlog.Logger.Err(err).
				Str("run_id", job.ID.String()).
				Str("file", name).
				Msg("failed to process file")
		} else {
			zlog.Logger.Info().
				Str("run_id", job.ID.String()).
				Str("file", name).
				Str("output", dst).
				Msg("file processed")
		}

		report.Results = append(report.Results, model.FileResult{
			Filename:   name,
			OutputPath: dst,
			Err:        err,
		})
	}

	return report, nil
}

// processFile runs the load → clean → save chain for a single file and
// returns the destination path.
func (s *Service) processFile(job model.Job, name string) (string, error) {
	src, err := s.storage.Load(filepath.Join(job.SourceDir, name))
	if err != nil {
		return "", fmt.Errorf("%s: %w", name, err)
	}
	defer src.Close()

	img, err := processor.Decode(src)
	if err != nil {
		return "", fmt.Errorf("%s: %w", name, err)
	}

	cleaned := s.pipeline.Clean(img, job.Params)

	buf := bytes.NewBuffer(nil)
	if err := processor.EncodeJPEG(buf, cleaned); err != nil {
		return "", fmt.Errorf("%s: %w", name, err)
	}

	dst, err := s.storage.Save(job.DestDir, name, buf)
	if err != nil {
		return "", fmt.Errorf("%s: %w", name, err)
	}

	return dst, nil
}
