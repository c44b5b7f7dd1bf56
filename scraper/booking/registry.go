package booking

// Registry maps a destination name to its destination id. It is filled while
// the coordinator builds its listing URLs and only read afterwards, so lookups
// from concurrent crawl callbacks need no locking.
type Registry struct {
	ids map[string]int
}

// NewRegistry creates an empty Registry
func NewRegistry() *Registry {
	return &Registry{ids: make(map[string]int)}
}

// Register maps name to id, replacing any previous id. It reports whether a
// different id was replaced.
func (r *Registry) Register(name string, id int) bool {
	prev, exists := r.ids[name]
	r.ids[name] = id
	return exists && prev != id
}

// Lookup returns the id registered for name
func (r *Registry) Lookup(name string) (int, bool) {
	id, ok := r.ids[name]
	return id, ok
}

// Len returns the number of registered names
func (r *Registry) Len() int {
	return len(r.ids)
}
