// Package repository defines the screening report store interface and errors.
package repository

// Option applies a configuration option to the MemStore.
type Option func(*MemStore)

// WithCapacity bounds how many reports the store retains before evicting
// the oldest.
func WithCapacity(capacity int) Option {
	return func(s *MemStore) {
		if capacity > 0 {
			s.capacity = capacity
		}
	}
}
