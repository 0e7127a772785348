package processor

import (
	"image"

	"github.com/disintegration/imaging"
)

// Open applies erosion followed by dilation with a square kernel of the
// given radius, removing isolated foreground specks. Radius 0 (a 1×1
// kernel) is the identity.
func Open(src *image.Gray, radius int) *image.Gray {
	return Dilate(Erode(src, radius), radius)
}

// Close applies dilation followed by erosion, filling small gaps in the
// foreground. Radius 0 is the identity.
func Close(src *image.Gray, radius int) *image.Gray {
	return Erode(Dilate(src, radius), radius)
}

// Erode replaces each sample with the minimum over its (2r+1)×(2r+1)
// neighborhood, clamped at the borders.
func Erode(src *image.Gray, radius int) *image.Gray {
	if radius <= 0 {
		return copyGray(src)
	}

	w := src.Bounds().Dx()
	h := src.Bounds().Dy()
	dst := image.NewGray(src.Bounds())

	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			m := uint8(255)
			for yy := max(0, y-radius); yy <= min(h-1, y+radius); yy++ {
				for xx := max(0, x-radius); xx <= min(w-1, x+radius); xx++ {
					if v := src.Pix[yy*src.Stride+xx]; v < m {
						m = v
					}
				}
			}
			dst.Pix[y*dst.Stride+x] = m
		}
	}

	return dst
}

// Dilate replaces each sample with the maximum over its (2r+1)×(2r+1)
// neighborhood, clamped at the borders.
func Dilate(src *image.Gray, radius int) *image.Gray {
	if radius <= 0 {
		return copyGray(src)
	}

	w := src.Bounds().Dx()
	h := src.Bounds().Dy()
	dst := image.NewGray(src.Bounds())

	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			var m uint8
			for yy := max(0, y-radius); yy <= min(h-1, y+radius); yy++ {
				for xx := max(0, x-radius); xx <= min(w-1, x+radius); xx++ {
					if v := src.Pix[yy*src.Stride+xx]; v > m {
						m = v
					}
				}
			}
			dst.Pix[y*dst.Stride+x] = m
		}
	}

	return dst
}

// BitwiseOr combines two same-sized binary images pixel-by-pixel. White in
// either input wins.
func BitwiseOr(a, b *image.Gray) *image.Gray {
	dst := image.NewGray(a.Bounds())

	for i := range dst.Pix {
		dst.Pix[i] = a.Pix[i] | b.Pix[i]
	}

	return dst
}

// blur applies a Gaussian blur with a square kernel of the given width.
// A one-pixel kernel leaves the image unchanged.
func blur(src *image.Gray, kernel int) *image.Gray {
	if kernel <= 1 {
		return copyGray(src)
	}

	return grayscale(imaging.Blur(src, float64(kernel)/3))
}

func copyGray(src *image.Gray) *image.Gray {
	dst := image.NewGray(src.Bounds())
	copy(dst.Pix, src.Pix)
	return dst
}
