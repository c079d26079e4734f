package imagewatch

import (
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingWaker struct{ n atomic.Int32 }

func (w *countingWaker) Wake() { w.n.Add(1) }

func TestWatcherReportsChangedImages(t *testing.T) {
	dir := t.TempDir()
	a := filepath.Join(dir, "a.jpg")
	b := filepath.Join(dir, "b.jpg")
	require.NoError(t, os.WriteFile(a, []byte("a"), 0o644))
	require.NoError(t, os.WriteFile(b, []byte("b"), 0o644))

	wake := &countingWaker{}
	w, err := New(map[int]string{0: a, 3: b, 4: b}, wake)
	require.NoError(t, err)
	defer w.Close()

	require.NoError(t, os.WriteFile(b, []byte("bb"), 0o644))

	var got []int
	require.Eventually(t, func() bool {
		got = append(got, w.Drain()...)
		return len(got) >= 2
	}, 5*time.Second, 20*time.Millisecond)

	assert.Equal(t, []int{3, 4}, got[:2])
	assert.Greater(t, wake.n.Load(), int32(0))
	assert.Nil(t, w.Drain(), "drained changes are forgotten")
}

func TestWatcherIgnoresUnrelatedFiles(t *testing.T) {
	dir := t.TempDir()
	img := filepath.Join(dir, "a.jpg")
	require.NoError(t, os.WriteFile(img, []byte("a"), 0o644))

	w, err := New(map[int]string{0: img}, nil)
	require.NoError(t, err)
	defer w.Close()

	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0o644))
	time.Sleep(100 * time.Millisecond)
	assert.Nil(t, w.Drain())
}

func TestWatcherCloseTwice(t *testing.T) {
	w, err := New(nil, nil)
	require.NoError(t, err)
	require.NoError(t, w.Close())
	assert.NoError(t, w.Close())
}
