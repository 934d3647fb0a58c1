package analysis

import "math"

// Peak returns the largest absolute sample value in the block.
func Peak(samples []float32) float64 {
	peak := 0.0
	for _, s := range samples {
		a := math.Abs(float64(s))
		if a > peak {
			peak = a
		}
	}
	return peak
}

// RMS returns the root-mean-square level of the block.
func RMS(samples []float32) float64 {
	if len(samples) == 0 {
		return 0
	}
	sum := 0.0
	for _, s := range samples {
		v := float64(s)
		sum += v * v
	}
	return math.Sqrt(sum / float64(len(samples)))
}

// AliasRatio measures how much spectral energy falls outside the harmonic
// series of a fundamental. It compares energy within tolerance of each
// harmonic bin against total energy above the noise floor. Ratios near zero
// indicate a well band-limited oscillator.
func AliasRatio(magnitude []float64, fft *FFT, fundamental, sampleRate float64) float64 {
	if fundamental <= 0 {
		return 0
	}
	harmonicEnergy := 0.0
	totalEnergy := 0.0
	tolerance := 3 // bins either side count as part of the harmonic

	isHarmonic := func(bin int) bool {
		freq := fft.BinFrequency(bin, sampleRate)
		n := math.Round(freq / fundamental)
		if n < 1 {
			return bin <= tolerance
		}
		harmonicBin := fft.FrequencyBin(n*fundamental, sampleRate)
		diff := bin - harmonicBin
		return diff >= -tolerance && diff <= tolerance
	}

	for bin, mag := range magnitude {
		e := mag * mag
		totalEnergy += e
		if isHarmonic(bin) {
			harmonicEnergy += e
		}
	}
	if totalEnergy == 0 {
		return 0
	}
	return (totalEnergy - harmonicEnergy) / totalEnergy
}
