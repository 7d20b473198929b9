package shm

import (
	"sort"

	cmap "github.com/orcaman/concurrent-map/v2"

	internalshm "github.com/srediag/shmslot/internal/shm"
)

// registry tracks the named regions this process owns. A nil entry is a name
// reserved by an Open in progress.
type registry struct {
	m cmap.ConcurrentMap[string, *Region]
}

var owners = &registry{m: cmap.New[*Region]()}

func (g *registry) reserve(name string) bool {
	return g.m.SetIfAbsent(name, nil)
}

func (g *registry) set(name string, r *Region) {
	g.m.Set(name, r)
}

// remove drops name only while it still maps to r.
func (g *registry) remove(name string, r *Region) {
	g.m.RemoveCb(name, func(_ string, cur *Region, exists bool) bool {
		return exists && cur == r
	})
}

// Lookup returns the open region this process owns under name.
func Lookup(name string) (*Region, bool) {
	r, ok := owners.m.Get(internalshm.CleanName(name))
	if !ok || r == nil {
		return nil, false
	}
	return r, true
}

// Regions returns the open regions this process owns, sorted by name.
func Regions() []*Region {
	var out []*Region
	for _, r := range owners.m.Items() {
		if r != nil {
			out = append(out, r)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].name < out[j].name })
	return out
}
