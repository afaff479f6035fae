// Package picking provides ray casting against terrain and chunk bounds.
package picking

import (
	gomath "math"

	"github.com/Faultbox/midgard-terrain/internal/terrain"
	"github.com/Faultbox/midgard-terrain/internal/terrain/stream"
	"github.com/Faultbox/midgard-terrain/pkg/math"
)

// refineSteps is the number of bisection steps after a ground crossing.
const refineSteps = 16

// Ray represents a ray in 3D space with origin and direction.
type Ray struct {
	Origin    math.Vec3
	Direction math.Vec3 // Normalized direction
}

// At returns the point at distance t along the ray.
func (r Ray) At(t float32) math.Vec3 {
	return r.Origin.Add(r.Direction.Scale(t))
}

// ScreenToRay converts pixel coordinates to a world-space ray leaving the
// eye of a perspective camera. forward and right are the camera's unit
// basis vectors and fovY is in radians.
func ScreenToRay(screenX, screenY, viewportW, viewportH, fovY float32, eye, forward, right math.Vec3) Ray {
	// Convert screen coords to normalized device coords (-1 to 1)
	ndcX := 2.0*screenX/viewportW - 1.0
	ndcY := 1.0 - 2.0*screenY/viewportH // Flip Y

	up := right.Cross(forward)
	halfH := float32(gomath.Tan(float64(fovY) / 2))
	halfW := halfH * viewportW / viewportH

	dir := forward.
		Add(right.Scale(ndcX * halfW)).
		Add(up.Scale(ndcY * halfH))
	return Ray{Origin: eye, Direction: dir.Normalize()}
}

// IntersectPlaneY intersects a ray with a horizontal plane at the given Y level.
// Returns the intersection point (X, Z) and whether the intersection is valid.
func (r Ray) IntersectPlaneY(planeY float32) (x, z float32, ok bool) {
	if gomath.Abs(float64(r.Direction.Y)) < 0.001 {
		return 0, 0, false // Ray parallel to plane
	}

	t := (planeY - r.Origin.Y) / r.Direction.Y
	if t < 0 {
		return 0, 0, false // Intersection behind ray origin
	}

	p := r.At(t)
	return p.X, p.Z, true
}

// IntersectAABB tests ray intersection with an axis-aligned bounding box.
// Returns the distance to intersection (t) and whether intersection occurred.
// If the ray starts inside the box, returns the exit distance.
func (r Ray) IntersectAABB(box math.AABB) (t float32, hit bool) {
	tmin, tmax, ok := r.slab(box)
	if !ok {
		return 0, false
	}
	if tmin < 0 {
		return tmax, true
	}
	return tmin, true
}

// slab returns the entry and exit distances of the line through the ray
// against box. Either may be negative.
func (r Ray) slab(box math.AABB) (tmin, tmax float32, ok bool) {
	tmin = float32(-gomath.MaxFloat32)
	tmax = float32(gomath.MaxFloat32)

	origin := r.Origin.Array()
	dir := r.Direction.Array()
	lo, hi := box.Min.Array(), box.Max.Array()

	for axis := 0; axis < 3; axis++ {
		if dir[axis] == 0 {
			if origin[axis] < lo[axis] || origin[axis] > hi[axis] {
				return 0, 0, false
			}
			continue
		}
		t1 := (lo[axis] - origin[axis]) / dir[axis]
		t2 := (hi[axis] - origin[axis]) / dir[axis]
		if t1 > t2 {
			t1, t2 = t2, t1
		}
		tmin = max(tmin, t1)
		tmax = min(tmax, t2)
	}

	if tmax < tmin || tmax < 0 {
		return 0, 0, false
	}
	return tmin, tmax, true
}

// ResidentSpan returns the stretch of the ray, from its first entry to its
// last exit, that passes through any of the records' bounds.
func (r Ray) ResidentSpan(records []stream.Record) (from, to float32, ok bool) {
	for _, rec := range records {
		tmin, tmax, hit := r.slab(rec.Bounds)
		if !hit {
			continue
		}
		tmin = max(tmin, 0)
		if !ok {
			from, to, ok = tmin, tmax, true
			continue
		}
		from = min(from, tmin)
		to = max(to, tmax)
	}
	return from, to, ok
}

// IntersectHeight marches the ray in steps of step world units up to
// maxDist and returns the first point where it passes below the ground.
// Positions without a known height are skipped.
func (r Ray) IntersectHeight(src terrain.HeightSource, maxDist, step float32) (math.Vec3, bool) {
	return r.IntersectHeightSpan(src, 0, maxDist, step)
}

// IntersectHeightSpan is IntersectHeight restricted to distances
// [from, to]. src is never queried outside that range. A ray already
// below ground at its origin has no hit; one that enters the span below
// ground hits at the span start.
func (r Ray) IntersectHeightSpan(src terrain.HeightSource, from, to, step float32) (math.Vec3, bool) {
	if step <= 0 || to <= from || to <= 0 {
		return math.Vec3{}, false
	}
	from = max(from, 0)

	below := func(t float32) bool {
		p := r.At(t)
		h, ok := src.Sample(p.X, p.Z)
		return ok && p.Y <= h
	}
	surface := func(t float32) math.Vec3 {
		p := r.At(t)
		if h, ok := src.Sample(p.X, p.Z); ok {
			p.Y = h
		}
		return p
	}

	if below(from) {
		if from == 0 {
			return math.Vec3{}, false
		}
		return surface(from), true
	}

	prev := from
	for t := from + step; t <= to+step; t += step {
		t = min(t, to)
		if below(t) {
			lo, hi := prev, t
			for i := 0; i < refineSteps; i++ {
				mid := (lo + hi) / 2
				if below(mid) {
					hi = mid
				} else {
					lo = mid
				}
			}
			return surface(hi), true
		}
		if t >= to {
			break
		}
		prev = t
	}
	return math.Vec3{}, false
}

// PickChunk returns the nearest record whose bounds the ray enters.
func (r Ray) PickChunk(records []stream.Record) (stream.Record, float32, bool) {
	var (
		best  stream.Record
		bestT float32
		found bool
	)
	for _, rec := range records {
		t, hit := r.IntersectAABB(rec.Bounds)
		if hit && (!found || t < bestT) {
			best, bestT, found = rec, t, true
		}
	}
	return best, bestT, found
}
