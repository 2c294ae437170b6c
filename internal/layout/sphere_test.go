package layout

import (
	"math"
	"testing"
)

func TestSpherePointsDegenerateCounts(t *testing.T) {
	if got := SpherePoints(0); len(got) != 0 {
		t.Errorf("expected no points for empty graph, got %d", len(got))
	}

	one := SpherePoints(1)
	if len(one) != 1 {
		t.Fatalf("expected one point, got %d", len(one))
	}
	if !one[0].IsFinite() {
		t.Errorf("single point must be finite, got %+v", one[0])
	}
	if one[0].X != 0 || one[0].Y != 1 || one[0].Z != 0 {
		t.Errorf("single point should sit on the vertical axis, got %+v", one[0])
	}

	two := SpherePoints(2)
	if len(two) != 2 {
		t.Fatalf("expected two points, got %d", len(two))
	}
	sum := two[0].Add(two[1])
	if sum.Length() > 1e-9 {
		t.Errorf("two points should be antipodal, got %+v and %+v", two[0], two[1])
	}
}

func TestSpherePointsOnUnitSphere(t *testing.T) {
	for _, n := range []int{3, 10, 100} {
		for i, p := range SpherePoints(n) {
			if !p.IsFinite() {
				t.Fatalf("n=%d point %d not finite: %+v", n, i, p)
			}
			if r := p.Length(); math.Abs(r-1) > 1e-9 {
				t.Errorf("n=%d point %d off the unit sphere, radius %f", n, i, r)
			}
		}
	}
}

func TestSpherePointsAreSpreadOut(t *testing.T) {
	points := SpherePoints(50)
	minDist := math.Inf(1)
	for i := 0; i < len(points); i++ {
		for j := i + 1; j < len(points); j++ {
			if d := points[i].Sub(points[j]).Length(); d < minDist {
				minDist = d
			}
		}
	}
	// Golden-angle spacing keeps neighbors well apart even at this count
	if minDist < 0.1 {
		t.Errorf("points cluster too tightly, min separation %f", minDist)
	}
}

func TestSpherePointDeterministic(t *testing.T) {
	a := SpherePoint(7, 20)
	b := SpherePoint(7, 20)
	if a != b {
		t.Errorf("placement must be deterministic, got %+v and %+v", a, b)
	}
}
