package subtitle

import (
	"math"
	"testing"
)

func TestFormatSRTTime(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{0, "00:00:00,000"},
		{1.5, "00:00:01,500"},
		{3661.2567, "01:01:01,257"}, // milliseconds round
		{359999.999, "99:59:59,999"},
		{360000, "100:00:00,000"}, // hours unbounded
		{-5, "00:00:00,000"},
		{math.NaN(), "00:00:00,000"},
	}

	for _, tt := range tests {
		if got := FormatSRTTime(tt.in); got != tt.want {
			t.Errorf("FormatSRTTime(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestFormatASSTime(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{0, "0:00:00.00"},
		{1.5, "0:00:01.50"},
		{3661.2567, "1:01:01.25"}, // centiseconds truncate
		{3599.999, "0:59:59.99"},
		{-1, "0:00:00.00"},
	}

	for _, tt := range tests {
		if got := FormatASSTime(tt.in); got != tt.want {
			t.Errorf("FormatASSTime(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestParseSRTTime(t *testing.T) {
	got, err := ParseSRTTime("01:01:01,257")
	if err != nil {
		t.Fatalf("ParseSRTTime error: %v", err)
	}
	if math.Abs(got-3661.257) > 1e-9 {
		t.Errorf("got %v, want 3661.257", got)
	}

	for _, bad := range []string{"", "1:2", "aa:bb:cc,ddd", "00:00:00.000"} {
		if _, err := ParseSRTTime(bad); err == nil {
			t.Errorf("ParseSRTTime(%q) should fail", bad)
		}
	}
}

// Formatting then parsing must reproduce the input at millisecond precision
// for the whole representable range.
func TestSRTTimeRoundTrip(t *testing.T) {
	for _, sec := range []float64{0, 0.001, 1.5, 59.999, 3600, 3661.257, 86399.5, 359999.999} {
		parsed, err := ParseSRTTime(FormatSRTTime(sec))
		if err != nil {
			t.Fatalf("round trip of %v failed to parse: %v", sec, err)
		}
		if math.Abs(parsed-sec) > 0.0005 {
			t.Errorf("round trip of %v gave %v", sec, parsed)
		}
	}
}

func TestFractionalTime(t *testing.T) {
	tests := []struct {
		sec  float64
		rate float64
		want string
	}{
		{2.0, 24.0, "48/24s"},
		{0, 24.0, "0/24s"},
		{1.0, 29.97, "30/29.97s"},
		{10.5, 30.0, "315/30s"},
		{-1, 24.0, "0/24s"},   // clamped to zero frames
		{2.0, 0, "48/24s"},    // non-positive rate falls back to 24
		{math.NaN(), 24, "0/1s"},
	}

	for _, tt := range tests {
		if got := FractionalTime(tt.sec, tt.rate); got != tt.want {
			t.Errorf("FractionalTime(%v, %v) = %q, want %q", tt.sec, tt.rate, got, tt.want)
		}
	}
}
