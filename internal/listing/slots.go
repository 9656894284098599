package listing

import (
	"context"
	"fmt"
	"slices"
)

// SlotMap maps booking references to the court schedule ids reserved under
// them. A missing key or an empty slice means no reservations.
type SlotMap map[BookingReference][]CourtScheduleID

// SlotRegistry resolves booking references to their reserved court schedules.
// Implementations must accept the whole batch in one call.
type SlotRegistry interface {
	GetSlots(ctx context.Context, refs []BookingReference) (SlotMap, error)
}

// SlotRegistryFunc adapts a function to the SlotRegistry interface.
type SlotRegistryFunc func(ctx context.Context, refs []BookingReference) (SlotMap, error)

// GetSlots calls f.
func (f SlotRegistryFunc) GetSlots(ctx context.Context, refs []BookingReference) (SlotMap, error) {
	return f(ctx, refs)
}

// Canonicalizer maps every booking reference of a resolved batch to the
// representative of its slot-overlap component.
type Canonicalizer struct {
	canonical map[BookingReference]BookingReference
}

// Canonical returns the representative for ref. A nil ref maps to nil.
func (c Canonicalizer) Canonical(ref *BookingReference) (*BookingReference, error) {
	if ref == nil {
		return nil, nil
	}
	rep, ok := c.canonical[*ref]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnresolvedBookingReference, string(*ref))
	}
	return &rep, nil
}

// Components returns the number of distinct representatives.
func (c Canonicalizer) Components() int {
	seen := make(map[BookingReference]struct{}, len(c.canonical))
	for _, rep := range c.canonical {
		seen[rep] = struct{}{}
	}
	return len(seen)
}

// ResolveSlotEquivalence queries the registry once for refs and groups the
// references whose reserved court schedules intersect, transitively.
// Each group is represented by its lexicographically smallest reference.
func ResolveSlotEquivalence(ctx context.Context, registry SlotRegistry, refs []BookingReference) (Canonicalizer, error) {
	batch := distinctReferences(refs)
	if len(batch) == 0 {
		return Canonicalizer{canonical: map[BookingReference]BookingReference{}}, nil
	}
	if registry == nil {
		return Canonicalizer{}, fmt.Errorf("%w: no registry configured", ErrSlotRegistryUnavailable)
	}

	slots, err := registry.GetSlots(ctx, slices.Clone(batch))
	if err != nil {
		return Canonicalizer{}, fmt.Errorf("%w: %w", ErrSlotRegistryUnavailable, err)
	}

	sets := newDisjointSet(len(batch))
	owner := make(map[CourtScheduleID]int)
	for i, ref := range batch {
		for _, schedule := range slots[ref] {
			if schedule == "" {
				continue
			}
			if j, ok := owner[schedule]; ok {
				sets.union(i, j)
				continue
			}
			owner[schedule] = i
		}
	}

	// batch is sorted, so the first member seen per root is the smallest.
	representative := make(map[int]BookingReference, len(batch))
	canonical := make(map[BookingReference]BookingReference, len(batch))
	for i, ref := range batch {
		root := sets.find(i)
		rep, ok := representative[root]
		if !ok {
			rep = ref
			representative[root] = rep
		}
		canonical[ref] = rep
	}

	return Canonicalizer{canonical: canonical}, nil
}

func distinctReferences(refs []BookingReference) []BookingReference {
	out := make([]BookingReference, 0, len(refs))
	seen := make(map[BookingReference]struct{}, len(refs))
	for _, ref := range refs {
		if ref == "" {
			continue
		}
		if _, ok := seen[ref]; ok {
			continue
		}
		seen[ref] = struct{}{}
		out = append(out, ref)
	}
	slices.Sort(out)
	return out
}

// disjointSet is a union-find over dense indices with path compression and union by size.
type disjointSet struct {
	parent []int
	size   []int
}

func newDisjointSet(n int) *disjointSet {
	d := &disjointSet{parent: make([]int, n), size: make([]int, n)}
	for i := range d.parent {
		d.parent[i] = i
		d.size[i] = 1
	}
	return d
}

func (d *disjointSet) find(i int) int {
	root := i
	for d.parent[root] != root {
		root = d.parent[root]
	}
	for d.parent[i] != root {
		next := d.parent[i]
		d.parent[i] = root
		i = next
	}
	return root
}

func (d *disjointSet) union(a, b int) {
	ra, rb := d.find(a), d.find(b)
	if ra == rb {
		return
	}
	if d.size[ra] < d.size[rb] {
		ra, rb = rb, ra
	}
	d.parent[rb] = ra
	d.size[ra] += d.size[rb]
}
