package problems_test

import (
	"context"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/newtlab/internal/newton"
	"github.com/san-kum/newtlab/internal/problems"
)

var _ = Describe("Intersection", func() {
	var prob *problems.Intersection

	BeforeEach(func() {
		prob = problems.NewIntersection()
	})

	It("vanishes at the known intersection points", func() {
		Expect(prob.Residual(newton.State{2, 0}).Norm()).To(BeNumerically("~", 0, 1e-12))
		Expect(prob.Residual(newton.State{0, 2}).Norm()).To(BeNumerically("~", 0, 1e-12))
	})

	It("converges from a nearby start", func() {
		solver, err := newton.New(prob, newton.DefaultConfig())
		Expect(err).NotTo(HaveOccurred())

		result, err := solver.Solve(context.Background(), newton.State{1.5, 0.5})
		Expect(err).NotTo(HaveOccurred())
		Expect(result.Converged()).To(BeTrue())
		Expect(result.State[0]).To(BeNumerically("~", 2, 1e-5))
		Expect(result.State[1]).To(BeNumerically("~", 0, 1e-5))
	})

	It("exposes its parameters", func() {
		Expect(prob.SetParam("radius", 3)).To(Succeed())
		Expect(prob.GetParams()["radius"]).To(Equal(3.0))
		Expect(prob.SetParam("bogus", 1)).To(HaveOccurred())
	})
})

var _ = Describe("Flat", func() {
	It("reports the singular outcome without propagating NaN", func() {
		solver, err := newton.New(problems.NewFlat(), newton.DefaultConfig())
		Expect(err).NotTo(HaveOccurred())

		result, err := solver.Solve(context.Background(), newton.State{1, 1})
		Expect(err).NotTo(HaveOccurred())
		Expect(result.Status).To(Equal(newton.StatusSingular))
		Expect(result.State.IsValid()).To(BeTrue())
	})
})
