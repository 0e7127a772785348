package processor

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"io"

	"github.com/disintegration/imaging"

	"scancleaner/internal/model"
)

// Sentinel errors for the two I/O boundaries of the pipeline. Callers wrap
// them with the filename for context.
var (
	ErrDecode = errors.New("decode image")
	ErrEncode = errors.New("encode image")
)

// Pipeline constants. The adaptive window and offset match the scanned-page
// tuning the tool was built around; the morphology radius and blur kernel are
// one pixel, which makes those stages identity passes (kept for output
// parity, see DESIGN.md).
const (
	adaptiveWindow = 41
	adaptiveOffset = 3
	morphRadius    = 0
	blurKernel     = 1
)

// Processor runs the fixed cleanup chain on decoded images. It holds no
// state; one instance serves a whole batch.
type Processor struct{}

// New creates a new Processor.
func New() *Processor {
	return &Processor{}
}

// Clean applies the full cleanup chain to a decoded image and returns the
// binarized result:
//
//  1. integer upscale toward the target size
//  2. grayscale reduction
//  3. adaptive mean thresholding
//  4. morphological open/close
//  5. global threshold refined twice by Otsu passes around a blur
//  6. bitwise OR of the two branches
func (p *Processor) Clean(src image.Image, params model.Params) *image.Gray {
	resized := Upscale(src, params.TargetSize)
	gray := grayscale(resized)

	// Local branch: adaptive threshold handles uneven illumination, then
	// open/close removes speckle noise.
	adaptive := AdaptiveThreshold(gray, adaptiveWindow, adaptiveOffset)
	cleaned := Close(Open(adaptive, morphRadius), morphRadius)

	// Global branch: cut at the configured threshold, then let Otsu passes
	// around a smoothing step refine it.
	smooth := Threshold(gray, clampThreshold(params.BinThreshold))
	smooth = Threshold(smooth, OtsuThreshold(smooth))
	smooth = blur(smooth, blurKernel)
	smooth = Threshold(smooth, OtsuThreshold(smooth))

	return BitwiseOr(cleaned, smooth)
}

// Upscale enlarges src by the integer factor max(1, targetSize/width) using
// Lanczos resampling. Images are never shrunk.
func Upscale(src image.Image, targetSize int) image.Image {
	w := src.Bounds().Dx()
	h := src.Bounds().Dy()

	factor := 1
	if w > 0 && targetSize/w > 1 {
		factor = targetSize / w
	}

	return imaging.Resize(src, factor*w, factor*h, imaging.Lanczos)
}

// Decode reads and decodes an image from r.
func Decode(r io.Reader) (image.Image, error) {
	img, err := imaging.Decode(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecode, err)
	}

	return img, nil
}

// EncodeJPEG encodes img as JPEG and writes it to w.
func EncodeJPEG(w io.Writer, img image.Image) error {
	if err := imaging.Encode(w, img, imaging.JPEG); err != nil {
		return fmt.Errorf("%w: %v", ErrEncode, err)
	}

	return nil
}

// grayscale reduces src to a single-channel intensity grid using the
// standard luma weights.
func grayscale(src image.Image) *image.Gray {
	g := imaging.Grayscale(src)

	b := g.Bounds()
	dst := image.NewGray(b)

	for y := 0; y < b.Dy(); y++ {
		for x := 0; x < b.Dx(); x++ {
			dst.SetGray(x, y, color.Gray{Y: g.NRGBAAt(x, y).R})
		}
	}

	return dst
}

// clampThreshold limits a configured threshold to the 0-255 sample range.
func clampThreshold(t int) uint8 {
	if t < 0 {
		return 0
	}
	if t > 255 {
		return 255
	}

	return uint8(t)
}
