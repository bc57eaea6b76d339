package browse

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type callRecorder struct {
	mu    sync.Mutex
	calls []string
}

func (r *callRecorder) record(v string) func() {
	return func() {
		r.mu.Lock()
		defer r.mu.Unlock()
		r.calls = append(r.calls, v)
	}
}

func (r *callRecorder) snapshot() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.calls...)
}

func TestDebouncer_BurstFiresOnlyLast(t *testing.T) {
	d := NewDebouncer(30 * time.Millisecond)
	defer d.Stop()
	rec := &callRecorder{}

	// A burst of keystrokes faster than the delay.
	for _, q := range []string{"p", "pa", "pas", "past", "pasta"} {
		d.Trigger(rec.record(q))
		time.Sleep(5 * time.Millisecond)
	}

	require.Eventually(t, func() bool {
		return len(rec.snapshot()) == 1
	}, time.Second, 5*time.Millisecond)
	assert.Equal(t, []string{"pasta"}, rec.snapshot())

	// No stray second fire.
	time.Sleep(60 * time.Millisecond)
	assert.Equal(t, []string{"pasta"}, rec.snapshot())
}

func TestDebouncer_SpacedTriggersAllFire(t *testing.T) {
	d := NewDebouncer(10 * time.Millisecond)
	defer d.Stop()
	rec := &callRecorder{}

	d.Trigger(rec.record("first"))
	time.Sleep(30 * time.Millisecond)
	d.Trigger(rec.record("second"))
	time.Sleep(30 * time.Millisecond)

	assert.Equal(t, []string{"first", "second"}, rec.snapshot())
}

func TestDebouncer_StopCancelsPending(t *testing.T) {
	d := NewDebouncer(20 * time.Millisecond)
	rec := &callRecorder{}

	d.Trigger(rec.record("doomed"))
	d.Stop()

	time.Sleep(50 * time.Millisecond)
	assert.Empty(t, rec.snapshot())

	// Triggers after Stop are ignored.
	d.Trigger(rec.record("late"))
	time.Sleep(50 * time.Millisecond)
	assert.Empty(t, rec.snapshot())
}
