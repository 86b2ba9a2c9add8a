// SPDX-License-Identifier: EPL-2.0

package utils

import (
	"math"
	"testing"
)

func TestDBToVolume(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		db     float32
		volume float32
	}{
		{name: "unity", db: 0, volume: 1},
		{name: "minus twenty", db: -20, volume: 0.1},
		{name: "plus twenty", db: 20, volume: 10},
		{name: "minus six", db: -6, volume: 0.501187},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := DBToVolume(tt.db); math.Abs(float64(got-tt.volume)) > 1e-5 {
				t.Errorf("DBToVolume(%v) = %v, want %v", tt.db, got, tt.volume)
			}
			if got := VolumeToDB(tt.volume); math.Abs(float64(got-tt.db)) > 1e-4 {
				t.Errorf("VolumeToDB(%v) = %v, want %v", tt.volume, got, tt.db)
			}
		})
	}
}

func TestVolumeToDB_Silence(t *testing.T) {
	t.Parallel()

	if got := VolumeToDB(0); !math.IsInf(float64(got), -1) {
		t.Errorf("VolumeToDB(0) = %v, want -Inf", got)
	}
}

func BenchmarkDBToVolume(b *testing.B) {
	b.ReportAllocs()
	for b.Loop() {
		_ = DBToVolume(-12)
	}
}
