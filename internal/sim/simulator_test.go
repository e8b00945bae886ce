package sim_test

import (
	"context"
	"errors"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/wave2d/internal/dynamo"
	"github.com/san-kum/wave2d/internal/field"
	"github.com/san-kum/wave2d/internal/metrics"
	"github.com/san-kum/wave2d/internal/sim"
)

func referenceConfig(n int) sim.Config {
	return sim.Config{
		Nx:     n,
		Ny:     n,
		Params: sim.Params{Dx: 0.001, Dy: 0.001, C: 0.01, Dt: 0.01},
		Seed:   field.SineProduct(n, n),
		ProbeX: n / 4,
		ProbeY: n / 4,
	}
}

type tickCounter struct {
	ticks []int
}

func (c *tickCounter) OnTick(tick int, t float64, f *field.Field) {
	c.ticks = append(c.ticks, tick)
}

var _ = Describe("Simulator", func() {
	var ctx context.Context

	BeforeEach(func() {
		ctx = context.Background()
	})

	Describe("construction", func() {
		DescribeTable("rejects invalid parameters",
			func(p sim.Params) {
				cfg := referenceConfig(8)
				cfg.Params = p
				_, err := sim.New(cfg)
				Expect(err).To(MatchError(dynamo.ErrInvalidParams))
			},
			Entry("zero dx", sim.Params{Dx: 0, Dy: 1, C: 1, Dt: 0.1}),
			Entry("negative dy", sim.Params{Dx: 1, Dy: -1, C: 1, Dt: 0.1}),
			Entry("zero c", sim.Params{Dx: 1, Dy: 1, C: 0, Dt: 0.1}),
			Entry("negative dt", sim.Params{Dx: 1, Dy: 1, C: 1, Dt: -0.1}),
		)

		It("rejects empty grids", func() {
			cfg := referenceConfig(8)
			cfg.Nx = 0
			_, err := sim.New(cfg)
			Expect(err).To(MatchError(dynamo.ErrInvalidDimensions))
		})

		It("rejects a probe outside the grid", func() {
			cfg := referenceConfig(8)
			cfg.ProbeX = 8
			_, err := sim.New(cfg)
			Expect(err).To(MatchError(dynamo.ErrOutOfBounds))
		})

		It("rejects CFL violations only in strict mode", func() {
			cfg := referenceConfig(8)
			cfg.Params.Dt = 0.1
			_, err := sim.New(cfg)
			Expect(err).NotTo(HaveOccurred())

			cfg.Strict = true
			_, err = sim.New(cfg)
			Expect(err).To(MatchError(dynamo.ErrUnstable))
		})

		It("seeds the initial velocity", func() {
			cfg := referenceConfig(4)
			cfg.InitialVelocity = 0.01
			s, err := sim.New(cfg)
			Expect(err).NotTo(HaveOccurred())
			Expect(s.Field().Velocity.Data()).To(HaveEach(0.01))
		})
	})

	Describe("ticking", func() {
		It("is deterministic", func() {
			a, err := sim.New(referenceConfig(32))
			Expect(err).NotTo(HaveOccurred())
			b, err := sim.New(referenceConfig(32))
			Expect(err).NotTo(HaveOccurred())

			for i := 0; i < 200; i++ {
				Expect(a.Tick()).To(Succeed())
				Expect(b.Tick()).To(Succeed())
			}

			Expect(a.Snapshot()).To(Equal(b.Snapshot()))
			Expect(a.Field().Velocity.Snapshot()).To(Equal(b.Field().Velocity.Snapshot()))
		})

		It("keeps the amplitude bounded under the CFL limit", func() {
			s, err := sim.New(referenceConfig(64))
			Expect(err).NotTo(HaveOccurred())
			initial := s.Field().Value.MaxAbs()

			result, err := s.Run(ctx, 1000)
			Expect(err).NotTo(HaveOccurred())
			Expect(result.TicksTaken).To(Equal(1000))

			for _, sample := range result.Samples {
				Expect(sample.MaxAbs).To(BeNumerically("<", 10*initial))
			}
		})

		It("leaves a uniform field untouched", func() {
			cfg := referenceConfig(16)
			cfg.Seed = field.Uniform(0.75)
			s, err := sim.New(cfg)
			Expect(err).NotTo(HaveOccurred())
			before := s.Snapshot()

			_, err = s.Run(ctx, 250)
			Expect(err).NotTo(HaveOccurred())

			Expect(s.Snapshot()).To(Equal(before))
			Expect(s.Field().Velocity.Data()).To(HaveEach(0.0))
			Expect(s.Field().Acceleration.Data()).To(HaveEach(0.0))
		})

		It("advances the clock by dt per tick", func() {
			s, err := sim.New(referenceConfig(8))
			Expect(err).NotTo(HaveOccurred())
			for i := 0; i < 10; i++ {
				Expect(s.Tick()).To(Succeed())
			}
			Expect(s.Ticks()).To(Equal(10))
			Expect(s.Time()).To(BeNumerically("~", 0.1, 1e-12))
		})

		It("notifies observers once per tick", func() {
			s, err := sim.New(referenceConfig(8))
			Expect(err).NotTo(HaveOccurred())
			counter := &tickCounter{}
			s.AddObserver(counter)

			_, err = s.Run(ctx, 5)
			Expect(err).NotTo(HaveOccurred())
			Expect(counter.ticks).To(Equal([]int{1, 2, 3, 4, 5}))
		})

		It("resets to the seeded state", func() {
			s, err := sim.New(referenceConfig(16))
			Expect(err).NotTo(HaveOccurred())
			before := s.Snapshot()

			_, err = s.Run(ctx, 50)
			Expect(err).NotTo(HaveOccurred())
			Expect(s.Snapshot()).NotTo(Equal(before))

			s.Reset()
			Expect(s.Snapshot()).To(Equal(before))
			Expect(s.Ticks()).To(BeZero())
		})
	})

	Describe("runs", func() {
		It("records samples at the configured interval", func() {
			cfg := referenceConfig(16)
			cfg.SampleEvery = 10
			s, err := sim.New(cfg)
			Expect(err).NotTo(HaveOccurred())

			result, err := s.Run(ctx, 100)
			Expect(err).NotTo(HaveOccurred())
			Expect(result.Samples).To(HaveLen(11))
			Expect(result.Samples[10].Tick).To(Equal(100))
			Expect(result.Final).To(HaveLen(16 * 16))
			Expect(result.EnergyDrift).To(BeNumerically("<", 1e-2))

			series, interval := result.Probe()
			Expect(series).To(HaveLen(11))
			Expect(interval).To(BeNumerically("~", 0.1, 1e-12))
		})

		It("reports attached metrics", func() {
			s, err := sim.New(referenceConfig(16))
			Expect(err).NotTo(HaveOccurred())
			s.AddMetric(metrics.NewMaxAmplitude())
			s.AddMetric(metrics.NewStability(10))

			result, err := s.Run(ctx, 20)
			Expect(err).NotTo(HaveOccurred())
			Expect(result.Metrics).To(HaveKeyWithValue("stability", 1.0))
			Expect(result.Metrics).To(HaveKey("max_amplitude"))
		})

		It("rejects a non-positive tick count", func() {
			s, err := sim.New(referenceConfig(8))
			Expect(err).NotTo(HaveOccurred())
			_, err = s.Run(ctx, 0)
			Expect(err).To(MatchError(dynamo.ErrInvalidParams))
		})

		It("stops when the context is canceled", func() {
			s, err := sim.New(referenceConfig(8))
			Expect(err).NotTo(HaveOccurred())
			canceled, cancel := context.WithCancel(ctx)
			cancel()

			result, err := s.Run(canceled, 100)
			Expect(err).To(MatchError(context.Canceled))
			Expect(result.TicksTaken).To(BeZero())
		})

		It("flags blow-up past the threshold", func() {
			cfg := sim.Config{
				Nx:              8,
				Ny:              8,
				Params:          sim.Params{Dx: 1, Dy: 1, C: 1, Dt: 1},
				Seed:            field.Impulse(3, 3, 1),
				BlowupThreshold: 1e3,
			}
			s, err := sim.New(cfg)
			Expect(err).NotTo(HaveOccurred())

			result, err := s.Run(ctx, 100)
			Expect(err).To(MatchError(dynamo.ErrUnstable))

			var tickErr *dynamo.TickError
			Expect(errors.As(err, &tickErr)).To(BeTrue())
			Expect(tickErr.Tick).To(BeNumerically(">", 0))
			Expect(result.TicksTaken).To(BeNumerically("<", 100))
		})

		It("stops a callback run on request", func() {
			s, err := sim.New(referenceConfig(8))
			Expect(err).NotTo(HaveOccurred())

			frames := 0
			err = s.RunWithCallback(ctx, 0, func(tick int, t float64, value []float64) bool {
				Expect(value).To(HaveLen(64))
				frames++
				return frames < 7
			})
			Expect(err).NotTo(HaveOccurred())
			Expect(frames).To(Equal(7))
			Expect(s.Ticks()).To(Equal(6))
		})

		It("runs an ensemble side by side", func() {
			a, _ := sim.New(referenceConfig(8))
			b, _ := sim.New(referenceConfig(8))

			results, err := sim.NewEnsemble(a, b).Run(ctx, 30)
			Expect(err).NotTo(HaveOccurred())
			Expect(results).To(HaveLen(2))
			Expect(results[0].Final).To(Equal(results[1].Final))
		})

		It("fails only the ensemble member without a tick count", func() {
			a, _ := sim.New(referenceConfig(8))
			b, _ := sim.New(referenceConfig(8))

			results, errs := sim.NewEnsemble(a, b).RunEach(ctx, []int{12})
			Expect(errs[0]).NotTo(HaveOccurred())
			Expect(results[0].TicksTaken).To(Equal(12))
			Expect(errs[1]).To(MatchError(dynamo.ErrInvalidParams))
			Expect(b.Ticks()).To(Equal(0))
		})
	})
})
