package model

import "github.com/google/uuid"

// FileResult records the outcome of processing one input file.
type FileResult struct {
	Filename   string
	OutputPath string // destination path, empty if the file failed
	Err        error  // nil on success
}

// Report summarizes a batch run.
type Report struct {
	RunID   uuid.UUID
	Results []FileResult
}

// Processed returns the number of files converted successfully.
func (r Report) Processed() int {
	n := 0
	for _, res := range r.Results {
		if res.Err == nil {
			n++
		}
	}
	return n
}

// Failed returns the results that ended in an error.
func (r Report) Failed() []FileResult {
	var failed []FileResult
	for _, res := range r.Results {
		if res.Err != nil {
			failed = append(failed, res)
		}
	}
	return failed
}
