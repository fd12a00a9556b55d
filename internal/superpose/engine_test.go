package superpose_test

import (
	"math"
	"sync"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"gonum.org/v1/gonum/mat"

	"github.com/san-kum/magsim/internal/field"
	"github.com/san-kum/magsim/internal/grid"
	"github.com/san-kum/magsim/internal/superpose"
)

func mustSolenoid(x, y, current float64) *field.Solenoid {
	s, err := field.NewSolenoid(x, y, 0.05, 0.20, 100, current)
	Expect(err).NotTo(HaveOccurred())
	return s
}

func mustDipole(x, y, moment float64) *field.Dipole {
	d, err := field.NewDipole(x, y, moment)
	Expect(err).NotTo(HaveOccurred())
	return d
}

// expectClose compares two matrices element-wise with a relative tolerance,
// treating NaN as equal to NaN.
func expectClose(got, want *mat.Dense, rel float64) {
	gr, gc := got.Dims()
	wr, wc := want.Dims()
	Expect(gr).To(Equal(wr))
	Expect(gc).To(Equal(wc))

	for i := 0; i < gr; i++ {
		for j := 0; j < gc; j++ {
			g, w := got.At(i, j), want.At(i, j)
			if math.IsNaN(w) {
				Expect(math.IsNaN(g)).To(BeTrue(), "node (%d,%d)", i, j)
				continue
			}
			tol := rel * math.Max(math.Abs(w), 1e-30)
			Expect(g).To(BeNumerically("~", w, tol), "node (%d,%d)", i, j)
		}
	}
}

var _ = Describe("Engine", func() {
	var (
		xr = grid.Range{Min: -0.21, Max: 0.19}
		yr = grid.Range{Min: -0.16, Max: 0.34}
	)

	Describe("registration", func() {
		It("chains AddSource and keeps registration order", func() {
			a, b := mustSolenoid(0, 0, 1), mustDipole(0.1, 0.2, 0.1)
			eng := superpose.New()
			Expect(eng.AddSource(a).AddSource(b)).To(BeIdenticalTo(eng))

			entries := eng.Entries()
			Expect(entries).To(HaveLen(2))
			Expect(entries[0].Source).To(BeIdenticalTo(a))
			Expect(entries[1].Source).To(BeIdenticalTo(b))
			Expect(entries[0].ID).NotTo(Equal(entries[1].ID))
		})

		It("accepts the same source twice", func() {
			d := mustDipole(0, 0, 1)
			eng := superpose.New().AddSource(d).AddSource(d)
			Expect(eng.Len()).To(Equal(2))

			bx, by := eng.At(0.1, 0.1)
			sx, sy := d.At(0.1, 0.1)
			Expect(bx).To(BeNumerically("~", 2*sx, 1e-20))
			Expect(by).To(BeNumerically("~", 2*sy, 1e-20))
		})

		It("removes entries by id", func() {
			eng := superpose.New().AddSource(mustDipole(0, 0, 1)).AddSource(mustDipole(1, 0, 1))
			id := eng.Entries()[0].ID

			Expect(eng.Remove(id)).To(BeTrue())
			Expect(eng.Remove(id)).To(BeFalse())
			Expect(eng.Len()).To(Equal(1))
		})
	})

	Describe("Evaluate", func() {
		It("samples a resolution×resolution mesh including both ends", func() {
			eng := superpose.New().AddSource(mustDipole(0.1, 0.2, 0.1))
			s, err := eng.Evaluate(xr, yr, 7)
			Expect(err).NotTo(HaveOccurred())

			r, c := s.Bx.Dims()
			Expect(r).To(Equal(7))
			Expect(c).To(Equal(7))
			Expect(s.Grid.X[0]).To(Equal(xr.Min))
			Expect(s.Grid.X[6]).To(Equal(xr.Max))
			Expect(s.Grid.Y[0]).To(Equal(yr.Min))
			Expect(s.Grid.Y[6]).To(Equal(yr.Max))
			Expect(eng.Last()).To(BeIdenticalTo(s))
		})

		It("handles a single-point mesh", func() {
			eng := superpose.New().AddSource(mustSolenoid(0, 0, 1))
			s, err := eng.Evaluate(grid.Range{Min: 0, Max: 1}, grid.Range{Min: 0, Max: 1}, 1)
			Expect(err).NotTo(HaveOccurred())

			x, y, bx, by := s.Point(0, 0)
			Expect(x).To(Equal(0.0))
			Expect(y).To(Equal(0.0))
			Expect(bx).To(Equal(0.0))
			Expect(by).To(Equal(field.Mu0 * 500))
		})

		It("rejects a resolution below one", func() {
			_, err := superpose.New().Evaluate(xr, yr, 0)
			Expect(err).To(MatchError(grid.ErrInvalidResolution))
		})

		It("returns zero fields without sources", func() {
			s, err := superpose.New().Evaluate(xr, yr, 5)
			Expect(err).NotTo(HaveOccurred())
			Expect(mat.Norm(s.Bx, 1)).To(BeZero())
			Expect(mat.Norm(s.By, 1)).To(BeZero())
		})

		It("is linear in its sources", func() {
			a := mustSolenoid(-0.05, 0, 2)
			b := mustDipole(0.1, 0.2, 0.1)

			both, err := superpose.New().AddSource(a).AddSource(b).Evaluate(xr, yr, 25)
			Expect(err).NotTo(HaveOccurred())
			onlyA, err := superpose.New().AddSource(a).Evaluate(xr, yr, 25)
			Expect(err).NotTo(HaveOccurred())
			onlyB, err := superpose.New().AddSource(b).Evaluate(xr, yr, 25)
			Expect(err).NotTo(HaveOccurred())

			var sumX, sumY mat.Dense
			sumX.Add(onlyA.Bx, onlyB.Bx)
			sumY.Add(onlyA.By, onlyB.By)

			expectClose(both.Bx, &sumX, 1e-9)
			expectClose(both.By, &sumY, 1e-9)
		})

		It("agrees with point queries", func() {
			eng := superpose.New().
				AddSource(mustSolenoid(-0.05, 0, 2)).
				AddSource(mustDipole(0.1, 0.2, 0.1))
			s, err := eng.Evaluate(xr, yr, 9)
			Expect(err).NotTo(HaveOccurred())

			for _, ij := range [][2]int{{0, 0}, {3, 5}, {8, 2}, {4, 4}} {
				x, y, bx, by := s.Point(ij[0], ij[1])
				px, py := eng.At(x, y)
				Expect(bx).To(BeNumerically("~", px, 1e-12*math.Max(math.Abs(px), 1e-30)))
				Expect(by).To(BeNumerically("~", py, 1e-12*math.Max(math.Abs(py), 1e-30)))
			}
		})

		It("gives the same result serially and in parallel", func() {
			build := func(opts ...superpose.Option) *superpose.Sample {
				eng := superpose.New(opts...).
					AddSource(mustSolenoid(-0.05, 0, 2)).
					AddSource(mustSolenoid(0.1, 0.2, -1)).
					AddSource(mustDipole(0.1, -0.1, 0.3))
				s, err := eng.Evaluate(xr, yr, 40)
				Expect(err).NotTo(HaveOccurred())
				return s
			}

			serial := build(superpose.WithWorkers(1))
			parallel := build(superpose.WithWorkers(4), superpose.WithMinChunk(50))

			expectClose(parallel.Bx, serial.Bx, 1e-12)
			expectClose(parallel.By, serial.By, 1e-12)
		})

		It("supports concurrent evaluations on one engine", func() {
			eng := superpose.New(superpose.WithWorkers(2), superpose.WithMinChunk(8)).
				AddSource(mustSolenoid(-0.05, 0, 2)).
				AddSource(mustDipole(0.1, 0.2, 0.1))

			const callers = 4
			samples := make([]*superpose.Sample, callers)
			errs := make([]error, callers)

			var wg sync.WaitGroup
			for i := range callers {
				wg.Add(1)
				go func() {
					defer wg.Done()
					samples[i], errs[i] = eng.Evaluate(xr, yr, 5)
					_ = eng.Last()
				}()
			}
			wg.Wait()

			for i := range callers {
				Expect(errs[i]).NotTo(HaveOccurred())
				expectClose(samples[i].Bx, samples[0].Bx, 0)
				expectClose(samples[i].By, samples[0].By, 0)
			}
			Expect(samples).To(ContainElement(BeIdenticalTo(eng.Last())))
		})

		It("cancels the axial field between opposed mirrored coils", func() {
			eng := superpose.New().
				AddSource(mustSolenoid(0, 0.15, 1)).
				AddSource(mustSolenoid(0, -0.15, -1))

			scale := field.Mu0 * 500
			for _, x := range []float64{0, 0.02, -0.03, 0.2} {
				_, by := eng.At(x, 0)
				Expect(math.Abs(by)).To(BeNumerically("<", 1e-9*scale), "x=%g", x)
			}

			s, err := eng.Evaluate(grid.Range{Min: -0.1, Max: 0.1}, grid.Range{Min: -0.1, Max: 0.1}, 21)
			Expect(err).NotTo(HaveOccurred())
			_, _, _, by := s.Point(10, 10)
			Expect(math.Abs(by)).To(BeNumerically("<", 1e-9*scale))
		})
	})

	Describe("Stats", func() {
		It("counts singular nodes without aborting", func() {
			eng := superpose.New().AddSource(mustSolenoid(0, 0, 1))
			g, err := grid.New(grid.Range{Min: 0, Max: 0.05}, grid.Range{Min: 0.1, Max: 0.3}, 2, 2)
			Expect(err).NotTo(HaveOccurred())

			s, err := eng.EvaluateGrid(g)
			Expect(err).NotTo(HaveOccurred())

			st := s.Stats()
			Expect(st.Points).To(Equal(4))
			Expect(st.NonFinite).To(Equal(1))
			Expect(st.MaxMag).To(BeNumerically(">=", st.MinMag))
			Expect(st.MaxMag).To(BeNumerically("~", field.Mu0*500, 1e-15))
		})

		It("reports magnitude per node", func() {
			eng := superpose.New().AddSource(mustDipole(0, 0, 1))
			s, err := eng.Evaluate(xr, yr, 4)
			Expect(err).NotTo(HaveOccurred())

			mag := s.Magnitude()
			_, _, bx, by := s.Point(1, 2)
			Expect(mag.At(1, 2)).To(BeNumerically("~", math.Hypot(bx, by), 1e-20))
		})
	})

	Describe("EvaluatePotential", func() {
		It("sums only sources exposing a potential", func() {
			loop, err := field.NewLoop(0, 0, 0.05, 1)
			Expect(err).NotTo(HaveOccurred())

			eng := superpose.New().AddSource(loop).AddSource(mustDipole(0.1, 0.1, 1))
			g, pot, err := eng.EvaluatePotential(xr, yr, 6)
			Expect(err).NotTo(HaveOccurred())

			xs, ys := g.Flatten()
			want := loop.Potential(xs, ys)
			expectClose(pot, g.Reshape(want), 1e-12)
		})
	})

	It("can itself be used as a source", func() {
		inner := superpose.New().AddSource(mustDipole(0, 0, 1))
		outer := superpose.New().AddSource(inner).AddSource(mustDipole(0, 0, 1))

		bx, by := outer.At(0.1, 0.05)
		ix, iy := inner.At(0.1, 0.05)
		Expect(bx).To(BeNumerically("~", 2*ix, 1e-20))
		Expect(by).To(BeNumerically("~", 2*iy, 1e-20))
	})
})
