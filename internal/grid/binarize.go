package grid

import (
	"runtime"
	"sync"
)

// Foreground encoding for binarized grids. The box-counting estimator only
// distinguishes zero from non-zero, but serialized output differs, so the
// encoding is a configuration choice rather than a constant.
const (
	ForegroundOne  uint8 = 1
	ForegroundFull uint8 = 255
)

// Binarizer converts an intensity grid into a two-valued grid of the same
// shape. Implementations are total: every input grid produces an output.
type Binarizer interface {
	Binarize(g Grid) Grid
}

// FixedThreshold marks samples strictly greater than T as foreground.
type FixedThreshold struct {
	T          uint8
	Foreground uint8
}

// Binarize applies the fixed threshold to every sample.
func (f FixedThreshold) Binarize(g Grid) Grid {
	return threshold(g, f.T, f.Foreground)
}

// Otsu selects the threshold adaptively by maximizing between-class
// variance over the intensity histogram, then binarizes like
// FixedThreshold with the selected cutoff.
type Otsu struct {
	Foreground uint8
}

// Binarize computes the Otsu threshold for g and applies it. A grid with
// no separable intensity populations (every sample identical) has nothing
// to call foreground, so it binarizes entirely to background even though
// the reported threshold is 0.
func (o Otsu) Binarize(g Grid) Grid {
	t, separated := otsuThreshold(g)
	if !separated {
		return threshold(g, 255, o.Foreground)
	}
	return threshold(g, t, o.Foreground)
}

// OtsuThreshold returns the intensity cutoff maximizing between-class
// variance.
//
// The histogram is normalized to a probability distribution; for each
// candidate t the background weight is the CDF at t, the foreground weight
// its complement, and the score is
//
//	wB · wF · (meanB − meanF)²
//
// Ties keep the lowest t found during the left-to-right scan. A uniform
// grid scores 0 at every candidate, so the tie rule resolves it to
// threshold 0 and the whole image binarizes to background. That outcome is
// intentional: a constant image has no foreground population to separate.
func OtsuThreshold(g Grid) uint8 {
	t, _ := otsuThreshold(g)
	return t
}

// otsuThreshold additionally reports whether any candidate produced a
// positive between-class variance. A false result means the image is
// constant and no threshold separates anything.
func otsuThreshold(g Grid) (uint8, bool) {
	histo := Histogram(g)

	total := 0
	for _, n := range histo {
		total += n
	}
	if total == 0 {
		return 0, false
	}

	prob := [256]float64{}
	for i, n := range histo {
		prob[i] = float64(n) / float64(total)
	}

	var totalMean float64
	for i := range prob {
		totalMean += float64(i) * prob[i]
	}

	var (
		best         uint8
		bestVariance float64
		wB           float64 // cumulative background weight, CDF(t)
		sumB         float64 // cumulative Σ i·p(i) for i ≤ t
	)
	for t := 0; t < 256; t++ {
		wB += prob[t]
		sumB += float64(t) * prob[t]

		wF := 1 - wB
		if wB == 0 || wF <= 0 {
			continue
		}

		meanB := sumB / wB
		meanF := (totalMean - sumB) / wF

		variance := wB * wF * (meanB - meanF) * (meanB - meanF)
		if variance > bestVariance {
			bestVariance = variance
			best = uint8(t)
		}
	}
	return best, bestVariance > 0
}

// Histogram counts samples per intensity value. Rows are reduced in
// parallel with per-worker partial histograms merged at the end, since the
// count is a pure reduction with no cross-row dependency.
func Histogram(g Grid) [256]int {
	var histo [256]int
	if len(g) == 0 {
		return histo
	}

	workers := runtime.NumCPU()
	if workers > len(g) {
		workers = len(g)
	}
	if workers <= 1 {
		for _, row := range g {
			for _, v := range row {
				histo[v]++
			}
		}
		return histo
	}

	partials := make([][256]int, workers)
	var wg sync.WaitGroup
	chunk := (len(g) + workers - 1) / workers
	for w := 0; w < workers; w++ {
		start := w * chunk
		end := start + chunk
		if end > len(g) {
			end = len(g)
		}
		if start >= end {
			break
		}
		wg.Add(1)
		go func(w, start, end int) {
			defer wg.Done()
			for _, row := range g[start:end] {
				for _, v := range row {
					partials[w][v]++
				}
			}
		}(w, start, end)
	}
	wg.Wait()

	for w := range partials {
		for i, n := range partials[w] {
			histo[i] += n
		}
	}
	return histo
}

func threshold(g Grid, t, foreground uint8) Grid {
	out := make(Grid, len(g))
	for y, row := range g {
		dst := make([]uint8, len(row))
		for x, v := range row {
			if v > t {
				dst[x] = foreground
			}
		}
		out[y] = dst
	}
	return out
}
