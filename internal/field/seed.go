package field

import "math"

// SineProduct is the reference seed: a single periodic mode shifted and
// scaled into [0, 1].
func SineProduct(nx, ny int) SeedFunc {
	w, h := float64(nx), float64(ny)
	return func(i, j int) float64 {
		x, y := float64(i), float64(j)
		return 0.5*(math.Sin(x*2*math.Pi/w)*math.Sin(y*2*math.Pi/h)) + 0.5
	}
}

// Mode is a pure Fourier mode with kx, ky whole periods across the grid.
func Mode(nx, ny, kx, ky int, amp float64) SeedFunc {
	w, h := float64(nx), float64(ny)
	return func(i, j int) float64 {
		return amp * math.Sin(2*math.Pi*float64(kx*i)/w) * math.Sin(2*math.Pi*float64(ky*j)/h)
	}
}

func Uniform(v float64) SeedFunc {
	return func(int, int) float64 { return v }
}

// Impulse is zero everywhere except amp at (i0, j0).
func Impulse(i0, j0 int, amp float64) SeedFunc {
	return func(i, j int) float64 {
		if i == i0 && j == j0 {
			return amp
		}
		return 0
	}
}

// Gaussian is a bump centred at (cx, cy) using the shortest distance on
// the torus, so it stays smooth across the wrap.
func Gaussian(nx, ny int, cx, cy, sigma, amp float64) SeedFunc {
	w, h := float64(nx), float64(ny)
	if sigma <= 0 {
		sigma = 1
	}
	s2 := 2 * sigma * sigma
	return func(i, j int) float64 {
		dx := torusDist(float64(i)-cx, w)
		dy := torusDist(float64(j)-cy, h)
		return amp * math.Exp(-(dx*dx+dy*dy)/s2)
	}
}

func torusDist(d, period float64) float64 {
	d = math.Mod(d, period)
	if d < 0 {
		d += period
	}
	if d > period/2 {
		d -= period
	}
	return d
}
