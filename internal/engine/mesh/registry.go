// Package mesh consolidates mesh files into shared vertex arrays and keeps
// the registry of per-mesh draw ranges.
package mesh

import (
	"errors"
	"fmt"
	"sort"
)

// ErrUnknownMesh is returned by Lookup for a key that was never registered.
var ErrUnknownMesh = errors.New("mesh: unknown mesh key")

// BatchInfo is the vertex range of one mesh inside the shared arrays.
type BatchInfo struct {
	Start int32
	Count int32
}

// Registry maps mesh keys to their batch. It is read-only once built.
type Registry struct {
	batches map[string]BatchInfo
}

// Lookup returns the batch registered under key.
func (r *Registry) Lookup(key string) (BatchInfo, error) {
	if r != nil {
		if b, ok := r.batches[key]; ok {
			return b, nil
		}
	}
	return BatchInfo{}, fmt.Errorf("%w: %q", ErrUnknownMesh, key)
}

// Has reports whether key is registered.
func (r *Registry) Has(key string) bool {
	_, err := r.Lookup(key)
	return err == nil
}

// Keys returns the registered keys in sorted order.
func (r *Registry) Keys() []string {
	if r == nil {
		return nil
	}
	keys := make([]string, 0, len(r.batches))
	for k := range r.batches {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Len returns the number of registered meshes.
func (r *Registry) Len() int {
	if r == nil {
		return 0
	}
	return len(r.batches)
}
