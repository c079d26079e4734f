package viewer

import "testing"

func TestAspect(t *testing.T) {
	tests := []struct {
		w, h int
		want float32
	}{
		{1280, 720, 1280.0 / 720.0},
		{100, 100, 1},
		{100, 0, 1},
	}
	for _, tt := range tests {
		if got := aspect(tt.w, tt.h); got != tt.want {
			t.Errorf("aspect(%d, %d) = %v, want %v", tt.w, tt.h, got, tt.want)
		}
	}
}
