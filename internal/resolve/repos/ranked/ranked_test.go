package ranked

import (
	"runtime"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestOrdering(t *testing.T) {
	l := New[string]()
	// ranks [5,5,10,-1] with ascending service IDs [1,2,3,4]
	l.Bind(1, 5, "one")
	l.Bind(2, 5, "two")
	l.Bind(3, 10, "three")
	l.Bind(4, -1, "four")

	// rank 10 first, then the two rank-5 entries in service-ID order, then -1
	assert.Equal(t, []string{"three", "one", "two", "four"}, l.Snapshot())
}

func TestOrderingIndependentOfBindOrder(t *testing.T) {
	l := New[string]()
	l.Bind(4, -1, "four")
	l.Bind(3, 10, "three")
	l.Bind(2, 5, "two")
	l.Bind(1, 5, "one")

	assert.Equal(t, []string{"three", "one", "two", "four"}, l.Snapshot())
}

func TestUnbind(t *testing.T) {
	l := New[string]()
	l.Bind(1, 5, "one")
	l.Bind(2, 10, "two")

	l.Unbind(2)
	assert.Equal(t, []string{"one"}, l.Snapshot())

	l.Unbind(99) // unknown ID is a no-op
	assert.Equal(t, []string{"one"}, l.Snapshot())

	l.Unbind(1)
	assert.Empty(t, l.Snapshot())
}

func TestRebindReplaces(t *testing.T) {
	l := New[string]()
	l.Bind(1, 5, "old")
	l.Bind(1, 20, "new")

	assert.Equal(t, []string{"new"}, l.Snapshot())
	assert.Equal(t, 1, l.Len())
}

func TestSnapshotIsStableAcrossMutation(t *testing.T) {
	l := New[string]()
	l.Bind(1, 0, "one")

	before := l.Snapshot()
	l.Bind(2, 10, "two")

	// the old snapshot keeps its contents; the new one sees both entries
	assert.Equal(t, []string{"one"}, before)
	assert.Equal(t, []string{"two", "one"}, l.Snapshot())
}

func TestConcurrentBindAndSnapshot(t *testing.T) {
	l := New[int]()

	var wg sync.WaitGroup
	stop := make(chan struct{})
	readers := runtime.GOMAXPROCS(0)

	wg.Add(readers)
	for r := 0; r < readers; r++ {
		go func() {
			defer wg.Done()
			for {
				select {
				case <-stop:
					return
				default:
				}
				snap := l.Snapshot()
				// every observed snapshot must be rank-ordered
				for i := 1; i < len(snap); i++ {
					if snap[i-1] < snap[i] {
						t.Errorf("snapshot out of order: %v", snap)
						return
					}
				}
			}
		}()
	}

	for i := 0; i < 500; i++ {
		id := int64(i % 10)
		l.Bind(id, int(id), int(id))
		if i%3 == 0 {
			l.Unbind(id)
		}
	}
	close(stop)
	wg.Wait()
}
