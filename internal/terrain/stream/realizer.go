package stream

import "github.com/Faultbox/midgard-terrain/internal/terrain"

// Realizer turns finished meshes into scene objects. It is only called from
// the goroutine running Scheduler.Update.
type Realizer interface {
	Realize(mesh *terrain.Mesh) (Handle, error)
	Release(h Handle)
}
