// SPDX-License-Identifier: GPL-2.0-or-later

package math

import (
	"testing"
)

func TestClampMin(t *testing.T) {
	v := Clamp(1, 0, 10)
	if v != 1 {
		t.Errorf("Clamp(1,0,10) = %v", v)
	}
}

func TestClampMan(t *testing.T) {
	v := Clamp(1, 100, 10)
	if v != 10 {
		t.Errorf("Clamp(1,100,10) = %v", v)
	}
}

func TestClampVal(t *testing.T) {
	v := Clamp(1, 5, 10)
	if v != 5 {
		t.Errorf("Clamp(1,5,10) = %v", v)
	}
}

func TestClampInt32(t *testing.T) {
	v := Clamp[int32](-255, -300, 255)
	if v != -255 {
		t.Errorf("Clamp(-255,-300,255) = %v", v)
	}
}

func TestRoundToInt(t *testing.T) {
	tests := []struct {
		in   float32
		want int64
	}{
		{0, 0},
		{0.49, 0},
		{0.5, 1},
		{127.5, 128},
		{-0.5, -1},
		{-2.4, -2},
	}
	for _, tc := range tests {
		if got := RoundToInt(tc.in); got != tc.want {
			t.Errorf("RoundToInt(%v) = %v, want %v", tc.in, got, tc.want)
		}
	}
	if got, want := RoundToInt(float64(1<<40)+0.5), int64(1<<40+1); got != want {
		t.Errorf("RoundToInt(2^40+0.5) = %v, want %v", got, want)
	}
}
