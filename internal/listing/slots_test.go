package listing_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/hearing-scheduler/internal/listing"
	"github.com/example/hearing-scheduler/internal/testfixtures"
)

func ref(s string) *listing.BookingReference {
	r := listing.BookingReference(s)
	return &r
}

func canonicalOf(t *testing.T, c listing.Canonicalizer, s string) listing.BookingReference {
	t.Helper()
	got, err := c.Canonical(ref(s))
	require.NoError(t, err)
	require.NotNil(t, got)
	return *got
}

func TestResolveSlotEquivalence(t *testing.T) {
	tests := []struct {
		name     string
		slots    map[string][]string
		refs     []string
		validate func(t *testing.T, c listing.Canonicalizer)
	}{
		{
			name:  "shared_schedule_joins_references",
			slots: map[string][]string{"R1": {"S1"}, "R2": {"S1"}},
			refs:  []string{"R2", "R1"},
			validate: func(t *testing.T, c listing.Canonicalizer) {
				assert.Equal(t, listing.BookingReference("R1"), canonicalOf(t, c, "R1"))
				assert.Equal(t, listing.BookingReference("R1"), canonicalOf(t, c, "R2"))
				assert.Equal(t, 1, c.Components())
			},
		},
		{
			name:  "disjoint_schedules_stay_apart",
			slots: map[string][]string{"R1": {"S1"}, "R2": {"S2"}},
			refs:  []string{"R1", "R2"},
			validate: func(t *testing.T, c listing.Canonicalizer) {
				assert.Equal(t, listing.BookingReference("R1"), canonicalOf(t, c, "R1"))
				assert.Equal(t, listing.BookingReference("R2"), canonicalOf(t, c, "R2"))
				assert.Equal(t, 2, c.Components())
			},
		},
		{
			name:  "overlap_is_transitive",
			slots: map[string][]string{"R3": {"S1"}, "R2": {"S1", "S2"}, "R1": {"S2"}, "R4": {"S9"}},
			refs:  []string{"R3", "R4", "R2", "R1"},
			validate: func(t *testing.T, c listing.Canonicalizer) {
				for _, r := range []string{"R1", "R2", "R3"} {
					assert.Equal(t, listing.BookingReference("R1"), canonicalOf(t, c, r))
				}
				assert.Equal(t, listing.BookingReference("R4"), canonicalOf(t, c, "R4"))
			},
		},
		{
			name:  "empty_slot_sets_never_join",
			slots: map[string][]string{"R1": {}},
			refs:  []string{"R1", "R2"},
			validate: func(t *testing.T, c listing.Canonicalizer) {
				assert.Equal(t, listing.BookingReference("R1"), canonicalOf(t, c, "R1"))
				assert.Equal(t, listing.BookingReference("R2"), canonicalOf(t, c, "R2"))
			},
		},
		{
			name:  "representative_is_smallest_regardless_of_input_order",
			slots: map[string][]string{"B": {"S1"}, "A": {"S1"}, "C": {"S1"}},
			refs:  []string{"C", "B", "A"},
			validate: func(t *testing.T, c listing.Canonicalizer) {
				for _, r := range []string{"A", "B", "C"} {
					assert.Equal(t, listing.BookingReference("A"), canonicalOf(t, c, r))
				}
			},
		},
		{
			name:  "absent_reference_maps_to_absent",
			slots: map[string][]string{"R1": {"S1"}},
			refs:  []string{"R1"},
			validate: func(t *testing.T, c listing.Canonicalizer) {
				got, err := c.Canonical(nil)
				require.NoError(t, err)
				assert.Nil(t, got)
			},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			registry := testfixtures.NewSlotRegistry(tc.slots)
			refs := make([]listing.BookingReference, 0, len(tc.refs))
			for _, r := range tc.refs {
				refs = append(refs, listing.BookingReference(r))
			}

			c, err := listing.ResolveSlotEquivalence(context.Background(), registry, refs)
			require.NoError(t, err)
			assert.Equal(t, 1, registry.Calls())
			tc.validate(t, c)
		})
	}
}

func TestResolveSlotEquivalence_BatchesOneDistinctSortedLookup(t *testing.T) {
	registry := testfixtures.NewSlotRegistry(nil)

	_, err := listing.ResolveSlotEquivalence(context.Background(), registry,
		[]listing.BookingReference{"R2", "R1", "R2", ""})
	require.NoError(t, err)

	assert.Equal(t, 1, registry.Calls())
	assert.Equal(t, []listing.BookingReference{"R1", "R2"}, registry.LastRequest())
}

func TestResolveSlotEquivalence_EmptyInputSkipsRegistry(t *testing.T) {
	registry := testfixtures.NewSlotRegistry(nil)

	c, err := listing.ResolveSlotEquivalence(context.Background(), registry, nil)
	require.NoError(t, err)
	assert.Equal(t, 0, registry.Calls())
	assert.Equal(t, 0, c.Components())
}

func TestResolveSlotEquivalence_RegistryFailurePropagates(t *testing.T) {
	registry := testfixtures.NewSlotRegistry(nil)
	cause := errors.New("connection refused")
	registry.FailWith(cause)

	_, err := listing.ResolveSlotEquivalence(context.Background(), registry, []listing.BookingReference{"R1"})
	require.Error(t, err)
	assert.ErrorIs(t, err, listing.ErrSlotRegistryUnavailable)
	assert.ErrorIs(t, err, cause)
}

func TestCanonicalizer_UnresolvedReferenceFails(t *testing.T) {
	registry := testfixtures.NewSlotRegistry(nil)

	c, err := listing.ResolveSlotEquivalence(context.Background(), registry, []listing.BookingReference{"R1"})
	require.NoError(t, err)

	_, err = c.Canonical(ref("R9"))
	assert.ErrorIs(t, err, listing.ErrUnresolvedBookingReference)
}
