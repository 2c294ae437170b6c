// Package layout derives 3D coordinates for graph nodes. Positions are
// presentation state only: a deterministic golden-angle sphere
// placement gives every node a stable starting point, and an iterative
// force relaxation nudges connected nodes toward a readable spacing as
// the graph mutates.
package layout

import (
	"math"

	"sociogram/internal/domain"
)

// goldenAngle spaces successive points so they stay approximately
// equidistant on the sphere surface for any count
var goldenAngle = math.Pi * (3 - math.Sqrt(5))

// SpherePoint returns the i-th of n points evenly distributed over the
// unit sphere. Degenerate counts are special-cased: a single point sits
// on the vertical axis and two points are antipodal.
func SpherePoint(i, n int) domain.Vec3 {
	if n <= 0 {
		return domain.Vec3{}
	}
	if n == 1 {
		return domain.Vec3{Y: 1}
	}

	y := 1 - (float64(i)/float64(n-1))*2
	radius := math.Sqrt(math.Max(0, 1-y*y))
	theta := goldenAngle * float64(i)

	return domain.Vec3{
		X: math.Cos(theta) * radius,
		Y: y,
		Z: math.Sin(theta) * radius,
	}
}

// SpherePoints returns n points evenly distributed over the unit sphere.
func SpherePoints(n int) []domain.Vec3 {
	points := make([]domain.Vec3, 0, n)
	for i := 0; i < n; i++ {
		points = append(points, SpherePoint(i, n))
	}
	return points
}
