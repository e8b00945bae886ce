package analysis

import "math"

// ModeAngularFrequency is the angular frequency of the (kx, ky) periodic
// mode under the five-point Laplacian:
//
//	w^2 = c^2 * (4 sin^2(pi kx/nx) / dx^2 + 4 sin^2(pi ky/ny) / dy^2)
func ModeAngularFrequency(kx, ky, nx, ny int, c, dx, dy float64) float64 {
	sx := math.Sin(math.Pi * float64(kx) / float64(nx))
	sy := math.Sin(math.Pi * float64(ky) / float64(ny))
	return c * math.Sqrt(4*sx*sx/(dx*dx)+4*sy*sy/(dy*dy))
}

// ModeFrequency is ModeAngularFrequency in Hz.
func ModeFrequency(kx, ky, nx, ny int, c, dx, dy float64) float64 {
	return ModeAngularFrequency(kx, ky, nx, ny, c, dx, dy) / (2 * math.Pi)
}

// StepFrequency is the frequency the kick-drift-kick integrator actually
// produces for a mode of angular frequency w at step dt:
// sin(w' dt / 2) = w dt / 2. It returns NaN when w*dt > 2 (unstable).
func StepFrequency(w, dt float64) float64 {
	x := w * dt / 2
	if x > 1 {
		return math.NaN()
	}
	return 2 * math.Asin(x) / dt / (2 * math.Pi)
}
