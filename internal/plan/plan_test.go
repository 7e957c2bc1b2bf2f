// AngelaMos | 2026
// plan_test.go

package plan

import (
	"errors"
	"testing"
	"time"

	"github.com/carterperez-dev/coworkflow/internal/core"
)

func TestAddMonthClampsToMonthEnd(t *testing.T) {
	cases := []struct {
		in   time.Time
		want time.Time
	}{
		{
			in:   time.Date(2026, time.January, 15, 9, 30, 0, 0, time.UTC),
			want: time.Date(2026, time.February, 15, 9, 30, 0, 0, time.UTC),
		},
		{
			in:   time.Date(2026, time.January, 31, 12, 0, 0, 0, time.UTC),
			want: time.Date(2026, time.February, 28, 12, 0, 0, 0, time.UTC),
		},
		{
			in:   time.Date(2028, time.January, 31, 12, 0, 0, 0, time.UTC),
			want: time.Date(2028, time.February, 29, 12, 0, 0, 0, time.UTC),
		},
		{
			in:   time.Date(2026, time.December, 31, 23, 59, 0, 0, time.UTC),
			want: time.Date(2027, time.January, 31, 23, 59, 0, 0, time.UTC),
		},
	}

	for _, tc := range cases {
		if got := AddMonth(tc.in); !got.Equal(tc.want) {
			t.Fatalf("AddMonth(%s) = %s, want %s", tc.in, got, tc.want)
		}
	}
}

func TestParse(t *testing.T) {
	for _, pt := range All() {
		got, err := Parse(string(pt))
		if err != nil || got != pt {
			t.Fatalf("Parse(%q) = %q, %v", pt, got, err)
		}
	}

	if _, err := Parse("yearly"); !errors.Is(err, core.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestGuestValidity(t *testing.T) {
	if GuestValidity(Hourly) != time.Hour {
		t.Fatalf("hourly guest pass should last an hour")
	}
	if GuestValidity(Weekly) != 7*24*time.Hour {
		t.Fatalf("weekly guest pass should last a week")
	}
	if GuestValidity("conference") != 24*time.Hour {
		t.Fatalf("unknown plan should fall back to a day")
	}
}
