package merge

import "slices"

type entry[T any] struct {
	item         T
	contributors []string
}

// ordered is an insertion-ordered key -> entry map.
type ordered[T any] struct {
	keys    []string
	entries map[string]*entry[T]
}

func newOrdered[T any]() *ordered[T] {
	return &ordered[T]{entries: make(map[string]*entry[T])}
}

// add keeps item under key if the key is new. For a known key the item is dropped and,
// when credit is set, resumeID is appended to the kept entry's contributors.
func (o *ordered[T]) add(key string, item T, resumeID string, credit bool) {
	if e, ok := o.entries[key]; ok {
		if credit {
			e.contributors = append(e.contributors, resumeID)
		}
		return
	}
	o.keys = append(o.keys, key)
	o.entries[key] = &entry[T]{item: item, contributors: []string{resumeID}}
}

// project returns the kept items in first-seen order, passed through clone.
func (o *ordered[T]) project(clone func(T) T) []T {
	out := make([]T, 0, len(o.keys))
	for _, k := range o.keys {
		out = append(out, clone(o.entries[k].item))
	}
	return out
}

func (o *ordered[T]) contributors() map[string][]string {
	out := make(map[string][]string, len(o.keys))
	for _, k := range o.keys {
		out[k] = slices.Clone(o.entries[k].contributors)
	}
	return out
}
