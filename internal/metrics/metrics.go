// Package metrics provides per-iteration observers summarizing a solve.
// Every metric implements newton.Observer, so metrics attach to a solver
// the same way any observer does.
package metrics

import (
	"math"

	"github.com/san-kum/newtlab/internal/newton"
)

type Metric interface {
	newton.Observer
	Name() string
	Value() float64
	Reset()
}

// Contraction estimates the average factor by which the residual norm
// shrinks per step. Values below 1 mean progress; 1 means stall.
type Contraction struct {
	prev    float64
	sumLog  float64
	samples int
}

func NewContraction() *Contraction {
	return &Contraction{prev: math.NaN()}
}

func (c *Contraction) Name() string { return "contraction" }

func (c *Contraction) OnIteration(k int, x newton.State, norm float64) {
	if !math.IsNaN(c.prev) && c.prev > 0 && norm > 0 {
		c.sumLog += math.Log(norm / c.prev)
		c.samples++
	}
	c.prev = norm
}

func (c *Contraction) Value() float64 {
	if c.samples == 0 {
		return 1.0
	}
	return math.Exp(c.sumLog / float64(c.samples))
}

func (c *Contraction) Reset() {
	c.prev = math.NaN()
	c.sumLog = 0
	c.samples = 0
}

// BestNorm tracks the smallest residual norm seen over the run, which for
// a non-converging system says how close the iteration ever got.
type BestNorm struct {
	best float64
}

func NewBestNorm() *BestNorm {
	return &BestNorm{best: math.Inf(1)}
}

func (b *BestNorm) Name() string { return "best_norm" }

func (b *BestNorm) OnIteration(k int, x newton.State, norm float64) {
	if norm < b.best {
		b.best = norm
	}
}

func (b *BestNorm) Value() float64 { return b.best }

func (b *BestNorm) Reset() { b.best = math.Inf(1) }

// Defaults is the metric set the CLI reports for every solve.
func Defaults() []Metric {
	return []Metric{NewContraction(), NewBestNorm()}
}
