package geometry

import "math"

func sqrtPositive(x float64) float64 {
	if x < 0 {
		return 0
	}
	return math.Sqrt(x)
}

func cbrtPositive(x float64) float64 {
	return math.Cbrt(x)
}
