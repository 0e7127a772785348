package model

import "github.com/google/uuid"

// Job represents a single batch cleanup run over one source directory.
type Job struct {
	ID        uuid.UUID // run identifier, used in logs and the report
	SourceDir string    // resolved input directory (input root + src prefix)
	DestDir   string    // resolved output directory (output root + dest prefix)
	Params    Params
}
