// Package animation holds the per-tick frame generators that draw into a
// logical grid.
package animation

import (
	"fmt"
	"sort"

	"github.com/coreman2200/ledmatrix/model"
)

// Animator advances a logical grid by one frame per Tick.
type Animator interface {
	Name() string
	Tick()
	Grid() *model.Grid
}

// Factory builds an animator for a w×h grid.
type Factory func(w, h int) (Animator, error)

// Registry maps pattern names to factories.
type Registry struct{ m map[string]Factory }

func NewRegistry() *Registry { return &Registry{m: map[string]Factory{}} }

func (r *Registry) Register(name string, f Factory) {
	if f == nil {
		return
	}
	r.m[name] = f
}

func (r *Registry) Get(name string) (Factory, bool) { f, ok := r.m[name]; return f, ok }

// List returns the registered names in sorted order.
func (r *Registry) List() []string {
	out := make([]string, 0, len(r.m))
	for k := range r.m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// New builds the named animator.
func (r *Registry) New(name string, w, h int) (Animator, error) {
	f, ok := r.Get(name)
	if !ok {
		return nil, fmt.Errorf("unknown pattern %q (known: %v)", name, r.List())
	}
	return f(w, h)
}

// DefaultRegistry holds the dots animation and the bring-up patterns.
func DefaultRegistry() *Registry {
	r := NewRegistry()
	r.Register(DotsName, func(w, h int) (Animator, error) {
		return NewDots(w, h, DefaultPalette(w))
	})
	for _, k := range []Kind{IndexSweep, RGBChannels, RowSweep} {
		k := k
		r.Register(string(k), func(w, h int) (Animator, error) {
			return NewPattern(k, w, h)
		})
	}
	return r
}
