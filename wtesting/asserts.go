// Package wtesting carries small assertion helpers shared by this module's
// tests.
package wtesting

import (
	"testing"
)

func AssertEqualInt(t *testing.T, name string, got, want int) {
	t.Run(name, func(t *testing.T) {
		if got != want {
			t.Errorf("got %d; want %d", got, want)
		}
	})
}

func AssertEqualUint32(t *testing.T, name string, got, want uint32) {
	t.Run(name, func(t *testing.T) {
		if got != want {
			t.Errorf("got %d; want %d", got, want)
		}
	})
}

func AssertEqualPixels(t *testing.T, name string, got, want []uint8) {
	t.Run(name, func(t *testing.T) {
		if len(got) != len(want) {
			t.Errorf("got %d pixels; want %d", len(got), len(want))
			return
		}
		for i := range got {
			if got[i] != want[i] {
				t.Errorf("pixel %d: got %d; want %d", i, got[i], want[i])
				return
			}
		}
	})
}
