package analysis

import (
	"errors"
	"math/cmplx"

	"github.com/mjibson/go-dsp/fft"
	"gonum.org/v1/gonum/floats"
)

var ErrShortSeries = errors.New("analysis: series too short")

// PowerSpectrum returns |X[k]| for k in [0, n/2) of the mean-removed series.
func PowerSpectrum(data []float64) []float64 {
	if len(data) == 0 {
		return nil
	}
	centred := make([]float64, len(data))
	copy(centred, data)
	floats.AddConst(-floats.Sum(data)/float64(len(data)), centred)

	spectrum := fft.FFTReal(centred)
	ps := make([]float64, len(spectrum)/2)
	for i := range ps {
		ps[i] = cmplx.Abs(spectrum[i])
	}
	return ps
}

// DominantFrequency returns the frequency in Hz of the strongest bin above
// DC, for samples spaced interval seconds apart.
func DominantFrequency(data []float64, interval float64) (float64, error) {
	if len(data) < 4 || interval <= 0 {
		return 0, ErrShortSeries
	}
	ps := PowerSpectrum(data)
	if len(ps) < 2 {
		return 0, ErrShortSeries
	}
	peak := floats.MaxIdx(ps[1:]) + 1
	return float64(peak) / (float64(len(data)) * interval), nil
}

// BinWidth is the frequency resolution of a spectrum of n samples.
func BinWidth(n int, interval float64) float64 {
	return 1 / (float64(n) * interval)
}
