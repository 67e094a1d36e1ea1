package video

import "math"

// OptimalIndex returns the index of the variant closest to the requested size.
//
// With both width and height the distance is Euclidean; with one of them it is the squared
// difference on that axis alone. A zero value means "not requested". When neither is requested
// the first variant is returned. Ties go to the earliest index.
func OptimalIndex(variants []Variant, width, height int) (int, error) {
	if len(variants) == 0 {
		return 0, ErrInvalidArgument
	}

	var distance func(v Variant) float64
	switch {
	case width != 0 && height != 0:
		distance = func(v Variant) float64 {
			return math.Sqrt(math.Pow(float64(v.Width-width), 2) + math.Pow(float64(v.Height-height), 2))
		}
	case width != 0:
		distance = func(v Variant) float64 {
			return math.Pow(float64(width-v.Width), 2)
		}
	case height != 0:
		distance = func(v Variant) float64 {
			return math.Pow(float64(height-v.Height), 2)
		}
	default:
		return 0, nil
	}

	best, bestDistance := 0, distance(variants[0])
	for i := 1; i < len(variants); i++ {
		if d := distance(variants[i]); d < bestDistance {
			best, bestDistance = i, d
		}
	}
	return best, nil
}

// Optimal returns the variant closest to the requested size, or nil for an empty list.
func Optimal(variants []Variant, width, height int) *Variant {
	if len(variants) == 0 {
		return nil
	}
	idx, err := OptimalIndex(variants, width, height)
	if err != nil {
		return nil
	}
	v := variants[idx]
	return &v
}
