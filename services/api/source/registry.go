package source

// Registry maps selectors to fallback-wrapped adapters.
type Registry struct {
	adapters map[Kind]Adapter
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{adapters: make(map[Kind]Adapter)}
}

// Register wraps adapter in Fallback and serves it for kind.
func (r *Registry) Register(kind Kind, adapter Adapter) {
	r.adapters[kind] = WithFallback(adapter)
}

// Select resolves a selector. Blank or unrecognized selectors, and kinds
// with nothing registered, resolve to the local adapter. ok is false only
// when no local adapter is registered either.
func (r *Registry) Select(selector string) (Adapter, bool) {
	kind, _ := ParseKind(selector)
	if a, ok := r.adapters[kind]; ok {
		return a, true
	}
	a, ok := r.adapters[KindLocal]
	return a, ok
}
