// Package analysis provides offline signal measurement used by the test
// suite and the render tool: FFT magnitude spectra and block meters.
package analysis

import "math"

// WindowFunc selects the analysis window applied before a transform.
type WindowFunc int

const (
	RectangularWindow WindowFunc = iota
	HannWindow
	BlackmanHarrisWindow
)

// FFT computes magnitude spectra of real signals. Size must be a power of
// two. Work buffers are reused across Forward calls.
type FFT struct {
	size      int
	window    []float64
	real      []float64
	imag      []float64
	magnitude []float64
}

// NewFFT creates an FFT of the given power-of-two size with a precomputed
// analysis window.
func NewFFT(size int, window WindowFunc) *FFT {
	if size <= 0 || size&(size-1) != 0 {
		panic("analysis: FFT size must be a power of two")
	}
	f := &FFT{
		size:      size,
		window:    make([]float64, size),
		real:      make([]float64, size),
		imag:      make([]float64, size),
		magnitude: make([]float64, size/2+1),
	}
	n := float64(size)
	for i := range f.window {
		x := 2.0 * math.Pi * float64(i) / (n - 1.0)
		switch window {
		case HannWindow:
			f.window[i] = 0.5 * (1.0 - math.Cos(x))
		case BlackmanHarrisWindow:
			f.window[i] = 0.35875 - 0.48829*math.Cos(x) +
				0.14128*math.Cos(2*x) - 0.01168*math.Cos(3*x)
		default:
			f.window[i] = 1.0
		}
	}
	return f
}

// Size returns the transform length.
func (f *FFT) Size() int { return f.size }

// Forward transforms a real float32 signal and returns the magnitude
// spectrum (size/2+1 bins). Input shorter than the FFT size is zero padded;
// longer input is truncated. The returned slice is reused by the next call.
func (f *FFT) Forward(input []float32) []float64 {
	for i := 0; i < f.size; i++ {
		if i < len(input) {
			f.real[i] = float64(input[i]) * f.window[i]
		} else {
			f.real[i] = 0
		}
		f.imag[i] = 0
	}

	cooleyTukey(f.real, f.imag)

	for i := 0; i <= f.size/2; i++ {
		f.magnitude[i] = math.Hypot(f.real[i], f.imag[i])
	}
	return f.magnitude
}

// BinFrequency returns the center frequency of an FFT bin in Hz.
func (f *FFT) BinFrequency(bin int, sampleRate float64) float64 {
	return float64(bin) * sampleRate / float64(f.size)
}

// FrequencyBin returns the bin index closest to the given frequency.
func (f *FFT) FrequencyBin(hz, sampleRate float64) int {
	bin := int(math.Round(hz * float64(f.size) / sampleRate))
	if bin < 0 {
		bin = 0
	} else if bin > f.size/2 {
		bin = f.size / 2
	}
	return bin
}

// MagnitudeDB converts a linear magnitude to decibels with a -160 dB floor.
func MagnitudeDB(mag float64) float64 {
	if mag <= 1e-8 {
		return -160.0
	}
	return 20.0 * math.Log10(mag)
}

// cooleyTukey performs an in-place radix-2 decimation-in-time transform.
func cooleyTukey(re, im []float64) {
	n := len(re)

	// Bit-reversal permutation.
	j := 0
	for i := 0; i < n; i++ {
		if i < j {
			re[i], re[j] = re[j], re[i]
			im[i], im[j] = im[j], im[i]
		}
		m := n >> 1
		for m >= 1 && j >= m {
			j -= m
			m >>= 1
		}
		j += m
	}

	for stage := 2; stage <= n; stage <<= 1 {
		theta := -2.0 * math.Pi / float64(stage)
		wr, wi := math.Cos(theta), math.Sin(theta)
		for k := 0; k < n; k += stage {
			tr, ti := 1.0, 0.0
			half := stage / 2
			for j := 0; j < half; j++ {
				i1 := k + j
				i2 := i1 + half
				xr := tr*re[i2] - ti*im[i2]
				xi := tr*im[i2] + ti*re[i2]
				re[i2] = re[i1] - xr
				im[i2] = im[i1] - xi
				re[i1] += xr
				im[i1] += xi
				tr, ti = tr*wr-ti*wi, tr*wi+ti*wr
			}
		}
	}
}
