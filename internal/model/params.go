package model

// Default pipeline parameters, applied when the caller leaves them unset.
const (
	DefaultTargetSize   = 1800
	DefaultBinThreshold = 180
)

// Params holds the scalar configuration for one cleanup run.
// It is constructed once at the entry point and passed by value;
// there is no ambient parameter state.
type Params struct {
	SrcPrefix    string // subdirectory name under the input root
	DestPrefix   string // subdirectory name under the output root
	TargetSize   int    // resize basis in pixels
	BinThreshold int    // global binary threshold, 0-255
}
