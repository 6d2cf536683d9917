package sections

// Kind distinguishes core sections from user-defined ones
type Kind int

const (
	// KindCore sections have fixed template slots
	KindCore Kind = iota
	// KindCustom sections are rendered in section order
	KindCustom
)

func (k Kind) String() string {
	if k == KindCore {
		return "core"
	}
	return "custom"
}

// Entry is one resolved section: its key, variant and renderer
type Entry[R any] struct {
	Key      string
	Kind     Kind
	Title    string
	Renderer R
}

// Registry maps section keys to renderers of type R.
// Keys that were never registered resolve to the custom fallback renderer.
type Registry[R any] struct {
	entries  map[string]Entry[R]
	fallback R
}

// NewRegistry creates a registry whose unknown keys render with fallback
func NewRegistry[R any](fallback R) *Registry[R] {
	return &Registry[R]{
		entries:  make(map[string]Entry[R]),
		fallback: fallback,
	}
}

// Register binds a core section key to a renderer
func (r *Registry[R]) Register(key, title string, renderer R) {
	kind := KindCustom
	if IsCore(key) {
		kind = KindCore
	}
	r.entries[key] = Entry[R]{Key: key, Kind: kind, Title: title, Renderer: renderer}
}

// Lookup returns the entry for key. Unregistered keys yield a custom entry
// with the fallback renderer and ok set to false.
func (r *Registry[R]) Lookup(key string) (Entry[R], bool) {
	if e, ok := r.entries[key]; ok {
		return e, true
	}
	kind := KindCustom
	if IsCore(key) {
		kind = KindCore
	}
	return Entry[R]{Key: key, Kind: kind, Title: DisplayName(key), Renderer: r.fallback}, false
}

// Resolve walks order and returns one entry per key
func (r *Registry[R]) Resolve(order []string) []Entry[R] {
	out := make([]Entry[R], 0, len(order))
	for _, key := range order {
		e, _ := r.Lookup(key)
		out = append(out, e)
	}
	return out
}

// ResolveCustom returns the entries of the custom keys in order
func (r *Registry[R]) ResolveCustom(order []string) []Entry[R] {
	return r.Resolve(Custom(order))
}
