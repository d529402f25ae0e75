// Package debuginfo keeps engine-assigned debug names for IR values.
// The IR printer queries it and falls back to synthesized names when a
// value was never named here.
package debuginfo

import "golang.org/x/text/unicode/norm"

type argKey struct {
	block uint32
	index uint32
}

type resultKey struct {
	op    uint32
	index uint32
}

// Registry maps value identities to human-readable names. Names are
// NFC-normalized on the way in so lookups and dumps are byte-stable no
// matter how the name was typed.
type Registry struct {
	args    map[argKey]string
	results map[resultKey]string
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		args:    make(map[argKey]string),
		results: make(map[resultKey]string),
	}
}

// SetArgName names the index'th argument of a block.
func (r *Registry) SetArgName(block, index uint32, name string) {
	r.args[argKey{block: block, index: index}] = norm.NFC.String(name)
}

// ArgName returns the registered name for a block argument.
func (r *Registry) ArgName(block, index uint32) (string, bool) {
	name, ok := r.args[argKey{block: block, index: index}]
	return name, ok
}

// SetResultName names the index'th result of an operation.
func (r *Registry) SetResultName(op, index uint32, name string) {
	r.results[resultKey{op: op, index: index}] = norm.NFC.String(name)
}

// ResultName returns the registered name for an operation result.
func (r *Registry) ResultName(op, index uint32) (string, bool) {
	name, ok := r.results[resultKey{op: op, index: index}]
	return name, ok
}

// Len returns the number of registered names.
func (r *Registry) Len() int {
	return len(r.args) + len(r.results)
}
