package brackets

import (
	"math"

	"github.com/bracketforge/tournament-system/models"
)

// CalculateMatchCount estimates how many matches a format needs for n
// participants. Pure and total for n >= 0; unknown formats count zero.
//
// The result is used for UI previews and pre-generation sizing checks. It
// assumes byes collapse immediately, so for non-power-of-two elimination
// fields the generated skeleton can hold more rows than this estimate
// (phantom slots are materialized as pre-resolved matches).
func CalculateMatchCount(format models.Format, n int, config models.PhaseConfig) int {
	if n < 0 {
		return 0
	}
	switch format {
	case models.FormatSingleElimination, models.FormatGauntlet:
		if n < 2 {
			return 0
		}
		return n - 1
	case models.FormatDoubleElimination:
		if n < 2 {
			return 0
		}
		return 2*(n-1) + grandFinalMatchCount(config)
	case models.FormatRoundRobin:
		if n < 2 {
			return 0
		}
		groups := config.GroupCountOrDefault()
		if groups <= 1 {
			return n * (n - 1) / 2
		}
		total := 0
		for _, size := range groupSizes(n, groups) {
			total += size * (size - 1) / 2
		}
		return total
	case models.FormatSwiss:
		if n < 2 {
			return 0
		}
		return swissRoundCount(n) * (n / 2)
	}
	return 0
}

func grandFinalMatchCount(config models.PhaseConfig) int {
	switch config.GrandFinalOrDefault() {
	case models.GrandFinalNone:
		return 0
	case models.GrandFinalDouble:
		return 2
	default:
		return 1
	}
}

func swissRoundCount(n int) int {
	if n < 2 {
		return 0
	}
	return int(math.Ceil(math.Log2(float64(n))))
}

// groupSizes splits n participants into the given number of groups as
// evenly as possible, earlier groups taking the remainder.
func groupSizes(n, groups int) []int {
	if groups < 1 {
		groups = 1
	}
	if groups > n {
		groups = n
	}
	sizes := make([]int, groups)
	base := n / groups
	rem := n % groups
	for i := range sizes {
		sizes[i] = base
		if i < rem {
			sizes[i]++
		}
	}
	return sizes
}
