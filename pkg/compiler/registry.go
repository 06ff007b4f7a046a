package compiler

import "sync"

// Registry keeps the known compilers and which one is active. It is passed
// explicitly to whoever needs to compile; there is no global instance.
type Registry struct {
	mutex     sync.Mutex
	compilers []Compiler
	active    Compiler
}

// NewRegistry returns a Registry with the given compilers. The first
// available compiler becomes active.
func NewRegistry(compilers ...Compiler) *Registry {
	r := &Registry{compilers: compilers}
	r.active = r.Available()[0]
	return r
}

// Available returns the compilers that are available, in registration order.
// It never returns an empty slice: when no compiler is available, it returns
// a slice containing only NoCompiler.
func (r *Registry) Available() []Compiler {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	var available []Compiler
	for _, c := range r.compilers {
		if c.Available() {
			available = append(available, c)
		}
	}
	if len(available) == 0 {
		return []Compiler{NoCompiler}
	}
	return available
}

// Active returns the active compiler.
func (r *Registry) Active() Compiler {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	return r.active
}

// SetActive makes c the active compiler.
func (r *Registry) SetActive(c Compiler) {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	r.active = c
}

// Lookup finds an available compiler by name.
func (r *Registry) Lookup(name string) (Compiler, bool) {
	for _, c := range r.Available() {
		if c.Name() == name {
			return c, true
		}
	}
	return nil, false
}
