package resilience

import "golang.org/x/sync/singleflight"

// SingleFlight is a typed wrapper over singleflight.Group.
type SingleFlight[T any] struct {
	group singleflight.Group
}

// Do runs fn once per key among concurrent callers. shared reports whether
// the result was handed to more than one caller.
func (g *SingleFlight[T]) Do(key string, fn func() (T, error)) (T, error, bool) {
	v, err, shared := g.group.Do(key, func() (any, error) {
		return fn()
	})
	out, _ := v.(T)
	return out, err, shared
}

// Forget drops key so the next Do starts a fresh call.
func (g *SingleFlight[T]) Forget(key string) {
	g.group.Forget(key)
}
