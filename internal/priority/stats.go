package priority

import (
	"math"
	"sort"
)

func median(xs []float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	cp := append([]float64(nil), xs...)
	sort.Float64s(cp)
	mid := len(cp) / 2
	if len(cp)%2 == 1 {
		return cp[mid]
	}
	return 0.5 * (cp[mid-1] + cp[mid])
}

// percentile returns the p-th quantile (p in [0,1]) of xs, interpolating
// linearly at rank h = (n-1)*p between adjacent order statistics. This is
// the same definition pandas and numpy default to, which the quarter
// thresholds depend on.
func percentile(xs []float64, p float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	cp := append([]float64(nil), xs...)
	sort.Float64s(cp)

	h := float64(len(cp)-1) * p
	lo := int(math.Floor(h))
	if lo < 0 {
		return cp[0]
	}
	if lo >= len(cp)-1 {
		return cp[len(cp)-1]
	}
	return cp[lo] + (h-float64(lo))*(cp[lo+1]-cp[lo])
}

func clip(x, lo, hi float64) float64 {
	if x < lo {
		return lo
	}
	if x > hi {
		return hi
	}
	return x
}
