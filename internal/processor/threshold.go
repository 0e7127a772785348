package processor

import "image"

// Threshold binarizes src with a single global cutoff: samples above cutoff
// become white (255), the rest black (0).
func Threshold(src *image.Gray, cutoff uint8) *image.Gray {
	dst := image.NewGray(src.Bounds())

	for i, px := range src.Pix {
		if px > cutoff {
			dst.Pix[i] = 255
		}
	}

	return dst
}

// AdaptiveThreshold binarizes src against the mean of each pixel's
// window×window neighborhood: a sample is white when it exceeds the local
// mean minus offset, black otherwise. Windows are clamped at the borders and
// the mean is taken over the pixels actually covered.
func AdaptiveThreshold(src *image.Gray, window, offset int) *image.Gray {
	w := src.Bounds().Dx()
	h := src.Bounds().Dy()

	// Summed-area table, one row and column of zero padding.
	stride := w + 1
	integral := make([]uint64, (w+1)*(h+1))

	for y := 0; y < h; y++ {
		var rowSum uint64
		for x := 0; x < w; x++ {
			rowSum += uint64(src.Pix[y*src.Stride+x])
			integral[(y+1)*stride+x+1] = integral[y*stride+x+1] + rowSum
		}
	}

	half := window / 2
	dst := image.NewGray(src.Bounds())

	for y := 0; y < h; y++ {
		y0 := max(0, y-half)
		y1 := min(h, y+half+1)

		for x := 0; x < w; x++ {
			x0 := max(0, x-half)
			x1 := min(w, x+half+1)

			sum := integral[y1*stride+x1] - integral[y0*stride+x1] -
				integral[y1*stride+x0] + integral[y0*stride+x0]
			count := (y1 - y0) * (x1 - x0)
			mean := float64(sum) / float64(count)

			if float64(src.Pix[y*src.Stride+x]) > mean-float64(offset) {
				dst.Pix[y*dst.Stride+x] = 255
			}
		}
	}

	return dst
}

// OtsuThreshold picks the global cutoff that minimizes the intra-class
// intensity variance of src's histogram.
func OtsuThreshold(src *image.Gray) uint8 {
	var hist [256]int
	for _, px := range src.Pix {
		hist[px]++
	}

	total := float64(len(src.Pix))

	var sum float64
	for i, c := range hist {
		sum += float64(i) * float64(c)
	}

	var sumB, weightB, bestVar float64
	var cutoff uint8

	for t := 0; t < 256; t++ {
		weightB += float64(hist[t])
		if weightB == 0 {
			continue
		}

		weightF := total - weightB
		if weightF == 0 {
			break
		}

		sumB += float64(t) * float64(hist[t])
		meanB := sumB / weightB
		meanF := (sum - sumB) / weightF

		v := weightB * weightF * (meanB - meanF) * (meanB - meanF)
		if v > bestVar {
			bestVar = v
			cutoff = uint8(t)
		}
	}

	return cutoff
}
