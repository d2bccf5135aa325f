// internal/registry/registry_test.go
package registry

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mkrv/airtag-relay/internal/airtag"
)

func tags(id uint32, n int) []airtag.Tag {
	out := make([]airtag.Tag, n)
	for i := range out {
		out[i] = airtag.Tag{ID: id, Data: "x", Valid: true}
	}
	return out
}

func TestReplace_Wholesale(t *testing.T) {
	r := New(8)

	r.Replace(tags(1, 3))
	assert.Equal(t, 3, r.Len())

	r.Replace(tags(2, 5))
	require.Equal(t, 5, r.Len())
	for _, tag := range r.Snapshot() {
		assert.Equal(t, uint32(2), tag.ID, "old contents must not survive a replace")
	}

	r.Replace(nil)
	assert.Equal(t, 0, r.Len(), "an empty poll result empties the registry")
}

func TestReplace_TruncatesToCapacity(t *testing.T) {
	r := New(4)
	r.Replace(tags(1, 10))
	assert.Equal(t, 4, r.Len())
}

func TestReplace_CopiesInput(t *testing.T) {
	r := New(4)
	in := tags(1, 2)
	r.Replace(in)

	in[0].ID = 99
	assert.Equal(t, uint32(1), r.Snapshot()[0].ID)
}

func TestSnapshotAt_Bounds(t *testing.T) {
	r := New(4)
	r.Replace(tags(7, 2))

	tag, count, ok := r.SnapshotAt(1)
	require.True(t, ok)
	assert.Equal(t, 2, count)
	assert.Equal(t, uint32(7), tag.ID)

	_, count, ok = r.SnapshotAt(2)
	assert.False(t, ok)
	assert.Equal(t, 2, count)

	_, _, ok = r.SnapshotAt(-1)
	assert.False(t, ok)

	empty := New(4)
	_, count, ok = empty.SnapshotAt(0)
	assert.False(t, ok)
	assert.Equal(t, 0, count)
}

// TestReplace_Atomic hammers the registry with replacements of two
// distinguishable generations while readers take snapshots. A reader
// must only ever observe a full old or a full new sequence, never a mix.
func TestReplace_Atomic(t *testing.T) {
	const iterations = 2000

	r := New(16)
	r.Replace(tags(1, 16))

	var wg sync.WaitGroup
	stop := make(chan struct{})

	wg.Add(1)
	go func() {
		defer wg.Done()
		for i := 0; i < iterations; i++ {
			if i%2 == 0 {
				r.Replace(tags(2, 9)) // shrink, different generation
			} else {
				r.Replace(tags(1, 16))
			}
		}
		close(stop)
	}()

	for readers := 0; readers < 4; readers++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				select {
				case <-stop:
					return
				default:
				}

				snap := r.Snapshot()
				if len(snap) == 0 {
					continue
				}
				first := snap[0].ID
				for _, tag := range snap {
					if tag.ID != first {
						t.Errorf("mixed generations in snapshot: %d and %d", first, tag.ID)
						return
					}
				}
				// Generation and length move together.
				switch first {
				case 1:
					if len(snap) != 16 {
						t.Errorf("generation 1 snapshot has %d entries, want 16", len(snap))
						return
					}
				case 2:
					if len(snap) != 9 {
						t.Errorf("generation 2 snapshot has %d entries, want 9", len(snap))
						return
					}
				}

				tag, count, ok := r.SnapshotAt(0)
				if ok && (count != 9 && count != 16 || tag.ID == 0) {
					t.Errorf("inconsistent SnapshotAt: count=%d id=%d", count, tag.ID)
					return
				}
			}
		}()
	}

	wg.Wait()
}
