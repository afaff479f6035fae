package stream

import (
	"github.com/Faultbox/midgard-terrain/internal/terrain"
	"github.com/Faultbox/midgard-terrain/pkg/math"
)

// EventKind is the type of chunk lifecycle event.
type EventKind uint8

const (
	ChunkLoaded EventKind = iota
	ChunkUnloaded
)

func (k EventKind) String() string {
	switch k {
	case ChunkLoaded:
		return "loaded"
	case ChunkUnloaded:
		return "unloaded"
	default:
		return "unknown"
	}
}

// Event reports a chunk entering or leaving the scene. MinXZ and MaxXZ are
// the chunk's world-space footprint.
type Event struct {
	Kind  EventKind
	Key   terrain.ChunkKey
	Tier  terrain.Tier
	MinXZ math.Vec2
	MaxXZ math.Vec2
}

func eventFor(kind EventKind, r Record) Event {
	return Event{
		Kind:  kind,
		Key:   r.Key,
		Tier:  r.Tier,
		MinXZ: r.Bounds.Min.XZ(),
		MaxXZ: r.Bounds.Max.XZ(),
	}
}
