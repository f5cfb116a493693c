package timegrid

import (
	"math"
	"testing"
)

func TestRowConversionRoundTrip(t *testing.T) {
	c := DefaultConfig()
	heights := []float64{2, 3.5, 4, 8.25}
	minutes := []float64{360, 373, 540, 1012.5, 1380}

	for _, h := range heights {
		for _, m := range minutes {
			rows := c.MinutesToRows(m, h)
			back := c.RowsToMinutes(rows, h)
			if math.Abs(back-m) > 1e-9 {
				t.Errorf("RowsToMinutes(MinutesToRows(%v, %v)) = %v", m, h, back)
			}
		}
	}
}

func TestMinutesToRowsAnchor(t *testing.T) {
	c := DefaultConfig()
	if got := c.MinutesToRows(float64(c.WindowStart()), 4); got != 0 {
		t.Errorf("window start should map to row 0, got %v", got)
	}
	if got := c.MinutesToRows(300, 4); got >= 0 {
		t.Errorf("pre-window time should map to a negative row, got %v", got)
	}
}

func TestSnap(t *testing.T) {
	c := DefaultConfig()
	tests := []struct {
		in, want int
	}{
		{0, 0},
		{7, 0},
		{8, 15},
		{22, 15},
		{23, 30},
		{540, 540},
		{547, 540},
	}
	for _, tt := range tests {
		if got := c.Snap(tt.in); got != tt.want {
			t.Errorf("Snap(%d) = %d, want %d", tt.in, got, tt.want)
		}
	}
}

func TestSnapIdempotent(t *testing.T) {
	c := DefaultConfig()
	for m := 0; m < 1440; m += 7 {
		once := c.Snap(m)
		if twice := c.Snap(once); twice != once {
			t.Errorf("Snap not idempotent at %d: %d != %d", m, twice, once)
		}
	}
}

func TestClampToWindow(t *testing.T) {
	c := DefaultConfig()
	if got := c.ClampToWindow(100); got != 360 {
		t.Errorf("ClampToWindow(100) = %d, want 360", got)
	}
	if got := c.ClampToWindow(1400); got != 1380 {
		t.Errorf("ClampToWindow(1400) = %d, want 1380", got)
	}
	if got := c.ClampToWindow(720); got != 720 {
		t.Errorf("ClampToWindow(720) = %d, want 720", got)
	}
}

func TestFormatTime(t *testing.T) {
	tests := []struct {
		minutes int
		want    string
	}{
		{0, "12:00 AM"},
		{540, "9:00 AM"},
		{720, "12:00 PM"},
		{755, "12:35 PM"},
		{1380, "11:00 PM"},
	}
	for _, tt := range tests {
		if got := FormatTime(tt.minutes); got != tt.want {
			t.Errorf("FormatTime(%d) = %q, want %q", tt.minutes, got, tt.want)
		}
	}
}

func TestFormatTime24(t *testing.T) {
	if got := FormatTime24(540); got != "09:00" {
		t.Errorf("FormatTime24(540) = %q, want 09:00", got)
	}
	if got := FormatTime24(65); got != "01:05" {
		t.Errorf("FormatTime24(65) = %q, want 01:05", got)
	}
}

func TestParseClock(t *testing.T) {
	m, err := ParseClock("09:30")
	if err != nil || m != 570 {
		t.Errorf("ParseClock(09:30) = %d, %v", m, err)
	}
	if _, err := ParseClock("25:00"); err == nil {
		t.Error("ParseClock(25:00) should fail")
	}
	if _, err := ParseClock("junk"); err == nil {
		t.Error("ParseClock(junk) should fail")
	}
}

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		minutes int
		want    string
	}{
		{0, "0m"},
		{30, "30m"},
		{60, "1h"},
		{90, "1h 30m"},
		{150, "2h 30m"},
	}
	for _, tt := range tests {
		if got := FormatDuration(tt.minutes); got != tt.want {
			t.Errorf("FormatDuration(%d) = %q, want %q", tt.minutes, got, tt.want)
		}
	}
}

func TestFormatCountdown(t *testing.T) {
	tests := []struct {
		seconds int
		want    string
	}{
		{-5, "0s left"},
		{0, "0s left"},
		{42, "42s left"},
		{754, "12m 34s left"},
		{3599, "59m 59s left"},
		{3600, "1h 0m left"},
		{8100, "2h 15m left"},
	}
	for _, tt := range tests {
		if got := FormatCountdown(tt.seconds); got != tt.want {
			t.Errorf("FormatCountdown(%d) = %q, want %q", tt.seconds, got, tt.want)
		}
	}
}
