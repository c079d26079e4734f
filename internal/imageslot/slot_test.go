package imageslot

import (
	"image"
	"math/rand"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSlotTransitions(t *testing.T) {
	var s Slot
	img := image.NewRGBA(image.Rect(0, 0, 4, 4))

	assert.Equal(t, Empty, s.State())
	assert.Nil(t, s.Take(), "take from empty")
	assert.False(t, s.Fulfill(img), "fulfill without claim")
	assert.False(t, s.Abandon(), "abandon without claim")

	require.True(t, s.Claim())
	assert.Equal(t, Loading, s.State())
	assert.False(t, s.Claim(), "double claim")
	assert.Nil(t, s.Take(), "take while loading")

	require.True(t, s.Fulfill(img))
	assert.Equal(t, Ready, s.State())
	assert.False(t, s.Claim(), "claim while ready")

	assert.Same(t, img, s.Take())
	assert.Equal(t, Empty, s.State())
	assert.Nil(t, s.Take(), "image handed over once")
}

func TestSlotAbandon(t *testing.T) {
	var s Slot
	require.True(t, s.Claim())
	require.True(t, s.Abandon())
	assert.Equal(t, Empty, s.State())
	assert.True(t, s.Claim(), "slot reusable after failure")
}

func TestSlotFulfillRejectsNil(t *testing.T) {
	var s Slot
	require.True(t, s.Claim())
	assert.False(t, s.Fulfill(nil))
	assert.Equal(t, Loading, s.State())
}

func TestStateString(t *testing.T) {
	tests := []struct {
		s    State
		want string
	}{
		{Empty, "empty"},
		{Loading, "loading"},
		{Ready, "ready"},
		{State(9), "unknown"},
	}
	for _, tt := range tests {
		if got := tt.s.String(); got != tt.want {
			t.Errorf("State(%d).String() = %q, want %q", tt.s, got, tt.want)
		}
	}
}

// A producer repeatedly claims and fulfills or abandons while a consumer
// takes. Every fulfilled image must be taken exactly once.
func TestSlotRandomInterleavings(t *testing.T) {
	const rounds = 5000
	var (
		s         Slot
		fulfilled atomic.Int64
		taken     atomic.Int64
		done      atomic.Bool
		wg        sync.WaitGroup
	)

	wg.Add(2)
	go func() {
		defer wg.Done()
		defer done.Store(true)
		rng := rand.New(rand.NewSource(1))
		for i := 0; i < rounds; i++ {
			if !s.Claim() {
				continue
			}
			if rng.Intn(4) == 0 {
				if !s.Abandon() {
					t.Error("abandon of claimed slot failed")
				}
				continue
			}
			if !s.Fulfill(image.NewRGBA(image.Rect(0, 0, 1, 1))) {
				t.Error("fulfill of claimed slot failed")
			}
			fulfilled.Add(1)
		}
	}()
	go func() {
		defer wg.Done()
		for {
			finished := done.Load()
			if s.Take() != nil {
				taken.Add(1)
				continue
			}
			if finished {
				return
			}
		}
	}()
	wg.Wait()

	if img := s.Take(); img != nil {
		taken.Add(1)
	}
	assert.Equal(t, fulfilled.Load(), taken.Load())
	assert.Equal(t, Empty, s.State())
}
