package sitemap

import (
	"strings"
	"sync"
)

// Registration holds the defaults of a registered record type or route.
type Registration struct {
	Name            string // record type name or route path
	ChangeFrequency ChangeFrequency
	Priority        Priority
}

// Registry records which record types and static routes take part in the
// sitemap. It is usually filled once at startup and read afterwards, but
// it is safe for concurrent use.
type Registry struct {
	mu     sync.RWMutex
	types  []Registration
	routes []Registration
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{}
}

func newRegistration(name, freq, priority string) Registration {
	f, ok := ParseChangeFrequency(freq)
	if !ok {
		f = DefaultChangeFrequency
	}
	p, ok := ParsePriority(priority)
	if !ok {
		p = DefaultPriority
	}
	return Registration{Name: name, ChangeFrequency: f, Priority: p}
}

func (r *Registry) typeIndex(name string) int {
	for i, reg := range r.types {
		if strings.EqualFold(reg.Name, name) {
			return i
		}
	}
	return -1
}

// RegisterRecordType adds a record type with its default change frequency
// and priority. Blank values fall back to "monthly" and "0.6". Registering
// a name that is already present, in any letter case, does nothing.
func (r *Registry) RegisterRecordType(name, freq, priority string) {
	name = strings.TrimSpace(name)
	if name == "" {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.typeIndex(name) >= 0 {
		return
	}
	r.types = append(r.types, newRegistration(name, freq, priority))
}

// RegisterRecordTypes registers each name with the same defaults.
func (r *Registry) RegisterRecordTypes(names []string, freq, priority string) {
	for _, n := range names {
		r.RegisterRecordType(n, freq, priority)
	}
}

// IsRegistered reports whether a record type is registered, ignoring case.
func (r *Registry) IsRegistered(name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.typeIndex(name) >= 0
}

// UnregisterRecordType removes a record type.
func (r *Registry) UnregisterRecordType(name string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if i := r.typeIndex(name); i >= 0 {
		r.types = append(r.types[:i:i], r.types[i+1:]...)
	}
}

// ClearRecordTypes removes every registered record type.
func (r *Registry) ClearRecordTypes() {
	r.mu.Lock()
	r.types = nil
	r.mu.Unlock()
}

// RecordTypes returns the registered record types in registration order.
func (r *Registry) RecordTypes() []Registration {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]Registration(nil), r.types...)
}

// RegisterRoute adds a site-relative path to the route table. Registering
// a path again replaces its defaults but keeps its original position.
func (r *Registry) RegisterRoute(path, freq, priority string) {
	reg := newRegistration(path, freq, priority)
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.routes {
		if r.routes[i].Name == path {
			r.routes[i] = reg
			return
		}
	}
	r.routes = append(r.routes, reg)
}

// RegisterRoutes registers each path with the same defaults.
func (r *Registry) RegisterRoutes(paths []string, freq, priority string) {
	for _, p := range paths {
		r.RegisterRoute(p, freq, priority)
	}
}

// ClearRoutes empties the route table.
func (r *Registry) ClearRoutes() {
	r.mu.Lock()
	r.routes = nil
	r.mu.Unlock()
}

// Routes returns the route table in insertion order.
func (r *Registry) Routes() []Registration {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]Registration(nil), r.routes...)
}

// RouteCount returns the number of registered routes.
func (r *Registry) RouteCount() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.routes)
}

// FrequencyForType returns the registered change frequency of a record
// type, or "" when the type is not registered.
func (r *Registry) FrequencyForType(name string) ChangeFrequency {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if i := r.typeIndex(name); i >= 0 {
		return r.types[i].ChangeFrequency
	}
	return ""
}

// PriorityForType returns the registered priority of a record type, or 0.5
// when the type is not registered.
func (r *Registry) PriorityForType(name string) Priority {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if i := r.typeIndex(name); i >= 0 {
		return r.types[i].Priority
	}
	return FallbackPriority
}

// Resolve maps a source identifier back to its source. Record type
// identifiers are compared with the encoded form of each registered type,
// ignoring case.
func (r *Registry) Resolve(id string) (Source, bool) {
	switch id {
	case "":
		return Source{}, false
	case PageTreeID:
		return PageTree(), true
	case RoutesID:
		return Routes(), true
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, reg := range r.types {
		if strings.EqualFold(EncodeType(reg.Name), id) || strings.EqualFold(reg.Name, id) {
			return Record(reg.Name), true
		}
	}
	return Source{}, false
}
