package particle_test

import (
	"math"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/onsi/gomega/types"

	"github.com/san-kum/tcvsim/internal/particle"
	"github.com/san-kum/tcvsim/internal/vec"
)

const tol = 1e-12

func beAt(x, y float64) types.GomegaMatcher {
	return SatisfyAll(
		WithTransform(func(v vec.Vector2) float64 { return v.X }, BeNumerically("~", x, tol)),
		WithTransform(func(v vec.Vector2) float64 { return v.Y }, BeNumerically("~", y, tol)),
	)
}

var _ = Describe("Particle", func() {
	var p *particle.Particle

	BeforeEach(func() {
		p = particle.New(3, 4, 1)
	})

	Describe("New", func() {
		It("starts at rest with defaults", func() {
			Expect(p.Position()).To(Equal(vec.New(3, 4)))
			Expect(p.LastPosition()).To(Equal(p.Position()))
			Expect(p.Acceleration()).To(Equal(vec.Zero))
			Expect(p.Velocity()).To(Equal(vec.Zero))
			Expect(p.Elasticity()).To(Equal(particle.DefaultElasticity))
			Expect(p.Drag()).To(Equal(particle.DefaultDrag))
			_, ok := p.Bounds()
			Expect(ok).To(BeFalse())
		})

		DescribeTable("mass defaulting",
			func(in, want float64) {
				Expect(particle.New(0, 0, in).Mass()).To(Equal(want))
			},
			Entry("zero", 0.0, 1.0),
			Entry("negative", -2.0, 1.0),
			Entry("NaN", math.NaN(), 1.0),
			Entry("explicit", 2.5, 2.5),
		)
	})

	Describe("Integrate", func() {
		It("stays put at rest", func() {
			for _, step := range [][2]float64{{1, 1}, {0.016, 0.9}, {5, 3}} {
				p.Integrate(step[0], step[1])
			}
			Expect(p.Position()).To(beAt(3, 4))
		})

		It("converts a constant acceleration into f*t^2 from rest", func() {
			fx, fy, t := 2.0, -3.0, 0.5
			p.PlaceAt(0, 0)
			p.ForceWithMass(fx, fy, 1.0)
			p.Integrate(t, 1.0)
			Expect(p.Position()).To(beAt(fx*t*t, fy*t*t))
		})

		It("re-applies the prior displacement as velocity", func() {
			p.PlaceAt(0, 0).MoveBy(1, 0)
			p.Integrate(1, 1)
			Expect(p.Position()).To(Equal(vec.New(2, 0)))
			Expect(p.LastPosition()).To(Equal(vec.New(1, 0)))
		})

		It("scales the implicit velocity by the correction factor", func() {
			p.PlaceAt(0, 0).MoveBy(2, -4)
			p.Integrate(1, 0.5)
			Expect(p.Position()).To(beAt(3, -6))
		})

		It("clears the accumulator after each step", func() {
			p.PlaceAt(0, 0)
			p.Force(1, 1)
			p.Integrate(1, 1)
			Expect(p.Acceleration()).To(Equal(vec.Zero))

			// (1,1) from the first step, then pure velocity: (2,2).
			p.Integrate(1, 1)
			Expect(p.Position()).To(beAt(2, 2))
		})

		It("keeps last position independent of the new position", func() {
			p.PlaceAt(1, 1).MoveBy(1, 1)
			p.Force(10, 0)
			p.Integrate(1, 1)
			Expect(p.LastPosition()).To(Equal(vec.New(2, 2)))
			Expect(p.Position()).To(beAt(13, 3))
		})

		It("propagates NaN inputs without failing", func() {
			p.Force(1, 1)
			p.Integrate(math.NaN(), 1)
			Expect(p.Position().IsValid()).To(BeFalse())
		})
	})

	Describe("PlaceAt and MoveBy", func() {
		It("teleports without introducing velocity", func() {
			p.MoveBy(5, 5)
			Expect(p.PlaceAt(-1, 7)).To(BeIdenticalTo(p))
			Expect(p.Velocity()).To(Equal(vec.Zero))
			p.Integrate(1, 1)
			Expect(p.Position()).To(Equal(vec.New(-1, 7)))
		})

		It("records the pre-move position", func() {
			Expect(p.MoveBy(1, -1)).To(BeIdenticalTo(p))
			Expect(p.LastPosition()).To(Equal(vec.New(3, 4)))
			Expect(p.Position()).To(Equal(vec.New(4, 3)))
			Expect(p.Velocity()).To(Equal(vec.New(1, -1)))
		})
	})

	Describe("Force", func() {
		It("matches an explicit unit mass on a default-mass particle", func() {
			a := particle.New(0, 0, 0)
			b := particle.New(0, 0, 1)
			a.Force(4, -2)
			b.ForceWithMass(4, -2, 1.0)
			Expect(a.Acceleration()).To(Equal(b.Acceleration()))
		})

		It("divides by the particle's own mass", func() {
			heavy := particle.New(0, 0, 4)
			heavy.Force(8, 2)
			Expect(heavy.Acceleration()).To(beAt(2, 0.5))
		})

		It("falls back to own mass for zero or NaN", func() {
			heavy := particle.New(0, 0, 2)
			heavy.ForceWithMass(2, 2, 0)
			heavy.ForceWithMass(2, 2, math.NaN())
			Expect(heavy.Acceleration()).To(beAt(2, 2))
		})

		It("accumulates across calls", func() {
			p.Force(1, 0)
			p.Force(0, 1)
			p.ForceWithMass(2, 2, 2)
			Expect(p.Acceleration()).To(beAt(2, 2))
		})
	})

	Describe("Bounds", func() {
		rect := particle.Rect{Left: 0, Right: 10, Top: 0, Bottom: 10}

		It("clamps each axis", func() {
			p.PlaceAt(15, -3)
			p.SetBounds(&rect)
			Expect(p.Contain(1, 1)).To(Succeed())
			Expect(p.Position()).To(Equal(vec.New(10, 0)))
		})

		It("fails loudly without bounds", func() {
			p.PlaceAt(15, -3)
			Expect(p.Contain(1, 1)).To(MatchError(particle.ErrNoBounds))
			Expect(p.Position()).To(Equal(vec.New(15, -3)))
		})

		It("stores a copy and clears on nil", func() {
			r := rect
			p.SetBounds(&r)
			r.Right = 1
			got, ok := p.Bounds()
			Expect(ok).To(BeTrue())
			Expect(got.Right).To(Equal(10.0))

			p.SetBounds(nil)
			_, ok = p.Bounds()
			Expect(ok).To(BeFalse())
		})

		It("clamps against an explicit rect", func() {
			p.PlaceAt(-5, 20)
			p.ContainIn(rect)
			Expect(p.Position()).To(Equal(vec.New(0, 10)))
		})
	})

	Describe("Gravitate", func() {
		It("weights the contribution by the mass ratio", func() {
			p.PlaceAt(2, 0)
			Expect(p.Gravitate(0, 0, 3)).To(Succeed())
			// f = 3*1/4, ratio = 3/4, direction (1,0)
			Expect(p.Acceleration()).To(beAt(0.75*0.75, 0))
		})

		It("is symmetric about the source for equal masses", func() {
			a := particle.New(-5, 2, 2)
			b := particle.New(5, -2, 2)
			Expect(a.Gravitate(0, 0, 10)).To(Succeed())
			Expect(b.Gravitate(0, 0, 10)).To(Succeed())

			sum := a.Acceleration().Add(b.Acceleration())
			Expect(sum).To(beAt(0, 0))
			Expect(a.Acceleration().Length()).To(BeNumerically("~", b.Acceleration().Length(), tol))

			// parallel to the joining line
			line := b.Position().Sub(a.Position())
			acc := b.Acceleration()
			Expect(line.X*acc.Y - line.Y*acc.X).To(BeNumerically("~", 0, tol))
		})

		It("rejects a coincident source", func() {
			p.Force(1, 1)
			Expect(p.Gravitate(3, 4, 10)).To(MatchError(particle.ErrCoincidentPositions))
			Expect(p.Acceleration()).To(Equal(vec.New(1, 1)))
		})

		It("is consumed by Integrate", func() {
			p.PlaceAt(1, 0)
			Expect(p.Gravitate(0, 0, 1)).To(Succeed())
			p.Integrate(2, 1)
			// f = 1, ratio = 0.5, accel = 0.5, times t^2 = 2
			Expect(p.Position()).To(beAt(3, 0))
			Expect(p.Acceleration()).To(Equal(vec.Zero))
		})
	})

	It("ignores drag and elasticity during integration", func() {
		p.SetDrag(0.1)
		p.SetElasticity(0.9)
		p.PlaceAt(0, 0).MoveBy(1, 0)
		p.Integrate(1, 1)
		Expect(p.Position()).To(Equal(vec.New(2, 0)))
		Expect(p.Drag()).To(Equal(0.1))
		Expect(p.Elasticity()).To(Equal(0.9))
	})
})
