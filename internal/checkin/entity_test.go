// AngelaMos | 2026
// entity_test.go

package checkin

import (
	"testing"
	"time"
)

func TestDurationMinutes(t *testing.T) {
	in := time.Date(2026, time.March, 2, 9, 0, 0, 0, time.UTC)

	cases := []struct {
		elapsed time.Duration
		want    int
	}{
		{0, 0},
		{29*time.Second + 999*time.Millisecond, 0},
		{30 * time.Second, 1},
		{90 * time.Minute, 90},
		{90*time.Minute + 29*time.Second, 90},
		{90*time.Minute + 30*time.Second, 91},
		{-5 * time.Minute, 0},
		{30*time.Second - time.Microsecond, 0},
	}

	for _, tc := range cases {
		if got := DurationMinutes(in, in.Add(tc.elapsed)); got != tc.want {
			t.Fatalf("DurationMinutes(+%s) = %d, want %d", tc.elapsed, got, tc.want)
		}
	}
}
