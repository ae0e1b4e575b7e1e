// Package stats implements the inferential statistics used by bias analysis:
// Welch's two-sample t-test, Cohen's d, and the chi-square test of
// independence with Cramér's V.
package stats

import (
	"math"

	"github.com/montanaflynn/stats"
	"gonum.org/v1/gonum/stat/distuv"
)

// WelchResult holds the outcome of an unequal-variance t-test
type WelchResult struct {
	T  float64
	P  float64 // Two-sided
	DF float64 // Welch–Satterthwaite degrees of freedom
}

// WelchTTest compares the means of a and b without assuming equal variances.
// Both samples need at least two observations; otherwise T, P and DF are NaN.
// When both variances are zero, differing means give T=±Inf and P=0; equal
// means leave T and P NaN. DF is NaN in both cases.
func WelchTTest(a, b []float64) WelchResult {
	nan := WelchResult{T: math.NaN(), P: math.NaN(), DF: math.NaN()}
	if len(a) < 2 || len(b) < 2 {
		return nan
	}

	meanA, _ := stats.Mean(a)
	meanB, _ := stats.Mean(b)
	varA, _ := stats.SampleVariance(a)
	varB, _ := stats.SampleVariance(b)

	na, nb := float64(len(a)), float64(len(b))
	qa, qb := varA/na, varB/nb
	se := math.Sqrt(qa + qb)
	if se == 0 {
		if meanA == meanB {
			return nan
		}
		return WelchResult{T: math.Inf(sign(meanA - meanB)), P: 0, DF: math.NaN()}
	}

	t := (meanA - meanB) / se
	df := (qa + qb) * (qa + qb) / (qa*qa/(na-1) + qb*qb/(nb-1))

	dist := distuv.StudentsT{Mu: 0, Sigma: 1, Nu: df}
	p := 2 * dist.Survival(math.Abs(t))
	if p > 1 {
		p = 1
	}

	return WelchResult{T: t, P: p, DF: df}
}

func sign(v float64) int {
	if v < 0 {
		return -1
	}
	return 1
}

// CohenD returns the standardized mean difference of a and b using the
// pooled sample standard deviation. NaN when either sample has fewer than two
// observations; 0 when the pooled deviation is zero.
func CohenD(a, b []float64) float64 {
	if len(a) < 2 || len(b) < 2 {
		return math.NaN()
	}

	meanA, _ := stats.Mean(a)
	meanB, _ := stats.Mean(b)
	varA, _ := stats.SampleVariance(a)
	varB, _ := stats.SampleVariance(b)

	na, nb := float64(len(a)), float64(len(b))
	pooled := math.Sqrt(((na-1)*varA + (nb-1)*varB) / (na + nb - 2))
	if pooled == 0 {
		return 0
	}
	return (meanA - meanB) / pooled
}

// Mean returns the arithmetic mean, or NaN for an empty sample
func Mean(data []float64) float64 {
	m, err := stats.Mean(data)
	if err != nil {
		return math.NaN()
	}
	return m
}
