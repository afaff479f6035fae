package terrain

import (
	"errors"
	"fmt"
	gomath "math"
)

// Tier is a discrete level of detail, ordered from finest to coarsest.
type Tier uint8

// LOD tiers.
const (
	TierNear Tier = iota
	TierMid
	TierFar

	TierCount = 3
)

// String returns the tier name.
func (t Tier) String() string {
	switch t {
	case TierNear:
		return "Near"
	case TierMid:
		return "Mid"
	case TierFar:
		return "Far"
	default:
		return fmt.Sprintf("Tier(%d)", t)
	}
}

// LODSelector maps viewer distance to a tier. Thresholds[i] is the distance
// below which tier i applies; anything beyond the last threshold is Far.
// Grid resolutions are odd so edge vertices line up across tiers.
type LODSelector struct {
	Thresholds [TierCount - 1]float32
	Grids      [TierCount]GridRes
}

// DefaultLODSelector returns 600/1200 thresholds with 129/65/33 grids.
func DefaultLODSelector() LODSelector {
	return LODSelector{
		Thresholds: [TierCount - 1]float32{600, 1200},
		Grids: [TierCount]GridRes{
			{X: 129, Z: 129},
			{X: 65, Z: 65},
			{X: 33, Z: 33},
		},
	}
}

// Validate checks that thresholds ascend and every grid has at least
// two vertices per axis.
func (s LODSelector) Validate() error {
	var errs []error
	prev := float32(0)
	for i, th := range s.Thresholds {
		if th <= prev {
			errs = append(errs, fmt.Errorf("threshold %d (%v) must exceed %v", i, th, prev))
		}
		prev = th
	}
	for i, g := range s.Grids {
		if g.X < 2 || g.Z < 2 {
			errs = append(errs, fmt.Errorf("%s grid %dx%d needs at least 2x2 vertices", Tier(i), g.X, g.Z))
		}
	}
	return errors.Join(errs...)
}

// Pick returns the tier for a distance. It is a step function with no
// hysteresis: crossing a threshold changes the answer immediately.
func (s LODSelector) Pick(distance float32) Tier {
	for i, th := range s.Thresholds {
		if distance < th {
			return Tier(i)
		}
	}
	return TierFar
}

// PickSticky is Pick with a hysteresis margin around current's band: the
// current tier is kept while distance stays within margin of it. A margin
// of zero or less behaves exactly like Pick.
func (s LODSelector) PickSticky(distance float32, current Tier, margin float32) Tier {
	target := s.Pick(distance)
	if margin <= 0 || target == current || current >= TierCount {
		return target
	}
	lo, hi := s.band(current)
	if distance >= lo-margin && distance < hi+margin {
		return current
	}
	return target
}

// band returns the [lo, hi) distance range of a tier.
func (s LODSelector) band(t Tier) (float32, float32) {
	lo := float32(0)
	hi := float32(gomath.Inf(1))
	if t > 0 {
		lo = s.Thresholds[t-1]
	}
	if int(t) < len(s.Thresholds) {
		hi = s.Thresholds[t]
	}
	return lo, hi
}

// Grid returns the vertex grid of a tier.
func (s LODSelector) Grid(t Tier) GridRes {
	if t >= TierCount {
		t = TierFar
	}
	return s.Grids[t]
}
