package utils

import (
	"math"
)

// DegToRad converts degrees to radians.
func DegToRad(degrees float64) float64 {
	return degrees * math.Pi / 180
}

// RadToDeg converts radians to degrees.
func RadToDeg(radians float64) float64 {
	return radians * 180 / math.Pi
}

// MetersToMM converts meters to millimeters.
func MetersToMM(meters float64) float64 {
	return meters * 1000
}

// NormalizeAngle maps an angle in radians onto (-pi, pi].
func NormalizeAngle(angle float64) float64 {
	a := math.Mod(angle, 2*math.Pi)
	if a <= -math.Pi {
		a += 2 * math.Pi
	} else if a > math.Pi {
		a -= 2 * math.Pi
	}
	return a
}

// ShortestAngularDistance returns the signed rotation in (-pi, pi] that carries angle `from` onto
// angle `to` modulo 2*pi. A half turn resolves to +pi.
func ShortestAngularDistance(from, to float64) float64 {
	return NormalizeAngle(to - from)
}

// Square returns n*n. Math.pow( x, 2 ) is slow, this is faster.
func Square(n float64) float64 {
	return n * n
}
