// Package spline implements the guide paths used to script takeoff motion.
package spline

import (
	"errors"
	"sort"

	"github.com/go-gl/mathgl/mgl64"
)

const samplesPerSegment = 32

var ErrTooFewPoints = errors.New("spline: need at least two points")

// Path is a uniform Catmull-Rom curve through a list of local-space points,
// reparameterised by arc length.
type Path struct {
	points []mgl64.Vec3

	// cumulative arc length at every sample, and the curve parameter it maps to
	lengths []float64
	params  []float64
}

// New builds a path through points. Consecutive duplicates are dropped.
func New(points []mgl64.Vec3) (*Path, error) {
	pts := make([]mgl64.Vec3, 0, len(points))
	for _, p := range points {
		if len(pts) > 0 && pts[len(pts)-1] == p {
			continue
		}
		pts = append(pts, p)
	}
	if len(pts) < 2 {
		return nil, ErrTooFewPoints
	}

	p := &Path{points: pts}
	p.buildTable()
	return p, nil
}

// Points returns a copy of the control points.
func (p *Path) Points() []mgl64.Vec3 {
	if p == nil {
		return nil
	}
	return append([]mgl64.Vec3(nil), p.points...)
}

func (p *Path) segments() int {
	return len(p.points) - 1
}

// Length returns the arc length of the whole path.
func (p *Path) Length() float64 {
	if p == nil || len(p.lengths) == 0 {
		return 0
	}
	return p.lengths[len(p.lengths)-1]
}

// LocationAtDistance returns the local-space point at distance d along the
// path. d is clamped to [0, Length()].
func (p *Path) LocationAtDistance(d float64) mgl64.Vec3 {
	if p == nil || len(p.points) == 0 {
		return mgl64.Vec3{}
	}
	total := p.Length()
	if d <= 0 || total == 0 {
		return p.points[0]
	}
	if d >= total {
		return p.points[len(p.points)-1]
	}

	i := sort.SearchFloat64s(p.lengths, d)
	if i == 0 {
		return p.eval(p.params[0])
	}
	l0, l1 := p.lengths[i-1], p.lengths[i]
	u := 0.0
	if l1 > l0 {
		u = (d - l0) / (l1 - l0)
	}
	return p.eval(p.params[i-1] + u*(p.params[i]-p.params[i-1]))
}

// LocationAtFraction samples the path at f×Length(), f clamped to [0, 1].
func (p *Path) LocationAtFraction(f float64) mgl64.Vec3 {
	return p.LocationAtDistance(mgl64.Clamp(f, 0, 1) * p.Length())
}

func (p *Path) buildTable() {
	n := p.segments() * samplesPerSegment
	p.lengths = make([]float64, 0, n+1)
	p.params = make([]float64, 0, n+1)

	total := 0.0
	prev := p.eval(0)
	p.lengths = append(p.lengths, 0)
	p.params = append(p.params, 0)
	for s := 1; s <= n; s++ {
		t := float64(s) / samplesPerSegment
		cur := p.eval(t)
		total += cur.Sub(prev).Len()
		p.lengths = append(p.lengths, total)
		p.params = append(p.params, t)
		prev = cur
	}
}

// eval returns the curve point at global parameter t in [0, segments].
func (p *Path) eval(t float64) mgl64.Vec3 {
	seg := int(t)
	if seg >= p.segments() {
		seg = p.segments() - 1
	}
	if seg < 0 {
		seg = 0
	}
	u := t - float64(seg)

	p1 := p.points[seg]
	p2 := p.points[seg+1]
	p0 := p1
	if seg > 0 {
		p0 = p.points[seg-1]
	}
	p3 := p2
	if seg+2 < len(p.points) {
		p3 = p.points[seg+2]
	}
	return catmullRom(p0, p1, p2, p3, u)
}

func catmullRom(p0, p1, p2, p3 mgl64.Vec3, u float64) mgl64.Vec3 {
	u2 := u * u
	u3 := u2 * u
	a := p1.Mul(2)
	b := p2.Sub(p0).Mul(u)
	c := p0.Mul(2).Sub(p1.Mul(5)).Add(p2.Mul(4)).Sub(p3).Mul(u2)
	d := p0.Mul(-1).Add(p1.Mul(3)).Sub(p2.Mul(3)).Add(p3).Mul(u3)
	return a.Add(b).Add(c).Add(d).Mul(0.5)
}
