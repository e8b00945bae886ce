// Package analysis provides spectral tools for recorded wave runs.
//
//   - [PowerSpectrum]: magnitude spectrum of a probe time series
//   - [DominantFrequency]: strongest non-DC frequency of a series
//   - [ModeFrequency]: analytic frequency of a periodic Fourier mode on the
//     discrete grid, for comparison against a measured probe
//
// # Example
//
//	series, interval := result.Probe()
//	f, _ := analysis.DominantFrequency(series, interval)
//	want := analysis.ModeFrequency(1, 1, nx, ny, c, dx, dy)
package analysis
