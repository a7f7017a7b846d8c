package axis

import (
	"math"
	"testing"
	"time"

	"github.com/Iron-Ham/planboard/internal/errors"
)

func slotAxis() Config {
	return Config{Kind: KindSlot, DomainStart: 0, DomainEnd: 10, PixelWidth: 100, Step: 1, Mode: ModeSpan}
}

func TestSlotMapper_ToPixels(t *testing.T) {
	m := New(slotAxis())

	tests := []struct {
		slot int64
		want float64
	}{
		{0, 0},
		{2, 20},
		{10, 100},
		{-1, -10},
	}
	for _, tt := range tests {
		if got := m.ToPixels(tt.slot); got != tt.want {
			t.Errorf("ToPixels(%d) = %v, want %v", tt.slot, got, tt.want)
		}
	}
}

func TestSlotMapper_ToDomainRoundsToNearestStep(t *testing.T) {
	tests := []struct {
		name string
		step int64
		px   float64
		want int64
	}{
		{"exact", 1, 30, 3},
		{"round down", 1, 34, 3},
		{"round up", 1, 36, 4},
		{"step two", 2, 30, 4},
		{"step two low", 2, 29, 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := slotAxis()
			cfg.Step = tt.step
			if got := New(cfg).ToDomain(tt.px, -1); got != tt.want {
				t.Errorf("ToDomain(%v) = %d, want %d", tt.px, got, tt.want)
			}
		})
	}
}

func TestSlotMapper_RoundTrip(t *testing.T) {
	m := New(slotAxis())
	for slot := int64(0); slot <= 10; slot++ {
		if got := m.ToDomain(m.ToPixels(slot), -1); got != slot {
			t.Errorf("round trip of %d = %d", slot, got)
		}
	}
}

func TestSlotMapper_PixelDeltaSnaps(t *testing.T) {
	m := New(slotAxis())

	tests := []struct {
		dpx  float64
		want int64
	}{
		{0, 0},
		{4, 0},
		{6, 1},
		{50, 5},
		{-50, -5},
		{-14, -1},
	}
	for _, tt := range tests {
		if got := m.PixelDeltaToDomain(tt.dpx); got != tt.want {
			t.Errorf("PixelDeltaToDomain(%v) = %d, want %d", tt.dpx, got, tt.want)
		}
	}
	if got := m.DomainDeltaToPixels(3); got != 30 {
		t.Errorf("DomainDeltaToPixels(3) = %v, want 30", got)
	}
}

func TestSlotMapper_Degenerate(t *testing.T) {
	tests := []struct {
		name string
		cfg  Config
	}{
		{"zero width", Config{Kind: KindSlot, DomainStart: 0, DomainEnd: 10, PixelWidth: 0}},
		{"zero span", Config{Kind: KindSlot, DomainStart: 5, DomainEnd: 5, PixelWidth: 100}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := New(tt.cfg)
			if got := m.ToDomain(42, 7); got != 7 {
				t.Errorf("ToDomain on degenerate axis = %d, want current 7", got)
			}
			if got := m.PixelDeltaToDomain(42); got != 0 {
				t.Errorf("PixelDeltaToDomain on degenerate axis = %d, want 0", got)
			}
			if px := m.ToPixels(3); math.IsNaN(px) || math.IsInf(px, 0) {
				t.Errorf("ToPixels on degenerate axis = %v", px)
			}
		})
	}
}

func TestTimeMapper_Linear(t *testing.T) {
	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	cfg := Config{
		Kind:        KindTime,
		DomainStart: Millis(start),
		DomainEnd:   Millis(start.Add(10 * time.Hour)),
		PixelWidth:  100,
	}
	m := New(cfg)

	if got := m.ToPixels(Millis(start.Add(5 * time.Hour))); got != 50 {
		t.Errorf("ToPixels(+5h) = %v, want 50", got)
	}
	if got := m.ToDomain(50, 0); got != Millis(start.Add(5*time.Hour)) {
		t.Errorf("ToDomain(50) = %v, want +5h", Time(got))
	}
	if got := m.PixelDeltaToDomain(10); got != int64(time.Hour/time.Millisecond) {
		t.Errorf("PixelDeltaToDomain(10) = %d, want one hour", got)
	}
}

func TestTimeMapper_ToDomainClamps(t *testing.T) {
	cfg := Config{Kind: KindTime, DomainStart: 1000, DomainEnd: 2000, PixelWidth: 100}
	m := New(cfg)

	if got := m.ToDomain(-50, 1500); got != 1000 {
		t.Errorf("ToDomain(-50) = %d, want 1000", got)
	}
	if got := m.ToDomain(500, 1500); got != 2000 {
		t.Errorf("ToDomain(500) = %d, want 2000", got)
	}
}

func TestTimeMapper_StepSnapping(t *testing.T) {
	quarter := int64(15 * time.Minute / time.Millisecond)
	cfg := Config{
		Kind:        KindTime,
		DomainStart: 0,
		DomainEnd:   int64(10 * time.Hour / time.Millisecond),
		PixelWidth:  100,
		Step:        quarter,
	}
	m := New(cfg)

	// 1 pixel is 6 minutes, which rounds to zero quarters; 2 pixels is 12
	// minutes, which rounds to one quarter.
	if got := m.PixelDeltaToDomain(1); got != 0 {
		t.Errorf("PixelDeltaToDomain(1) = %d, want 0", got)
	}
	if got := m.PixelDeltaToDomain(2); got != quarter {
		t.Errorf("PixelDeltaToDomain(2) = %d, want %d", got, quarter)
	}
}

func TestTimeMapper_ZeroSpanNeverNaN(t *testing.T) {
	ts := Millis(time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC))
	m := New(Config{Kind: KindTime, DomainStart: ts, DomainEnd: ts, PixelWidth: 80})

	for _, dpx := range []float64{-100, -1, 0, 1, 3.5, 1000} {
		d := m.PixelDeltaToDomain(dpx)
		if d != 0 {
			t.Errorf("PixelDeltaToDomain(%v) = %d, want 0", dpx, d)
		}
		if got := ts + d; got != ts {
			t.Errorf("converted timestamp = %d, want original %d", got, ts)
		}
		if got := m.ToDomain(dpx, ts); got != ts {
			t.Errorf("ToDomain(%v) = %d, want original %d", dpx, got, ts)
		}
	}
	if px := m.ToPixels(ts); px != 0 {
		t.Errorf("ToPixels on zero span = %v, want 0", px)
	}
	if px := m.DomainDeltaToPixels(1000); math.IsNaN(px) {
		t.Error("DomainDeltaToPixels returned NaN")
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{"valid", slotAxis(), false},
		{"degenerate is valid", Config{DomainStart: 1, DomainEnd: 1}, false},
		{"reversed", Config{DomainStart: 5, DomainEnd: 1, PixelWidth: 10}, true},
		{"negative width", Config{DomainEnd: 1, PixelWidth: -1}, true},
		{"negative step", Config{DomainEnd: 1, PixelWidth: 1, Step: -1}, true},
		{"bad mode", Config{DomainEnd: 1, PixelWidth: 1, Mode: "wide"}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Fatalf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, errors.ErrInvalidAxis) {
				t.Errorf("Validate() error = %v, want ErrInvalidAxis", err)
			}
		})
	}
}

func TestParseKind(t *testing.T) {
	if k, err := ParseKind("time"); err != nil || k != KindTime {
		t.Errorf("ParseKind(time) = %v, %v", k, err)
	}
	if k, err := ParseKind(""); err != nil || k != KindSlot {
		t.Errorf("ParseKind(\"\") = %v, %v", k, err)
	}
	if _, err := ParseKind("bogus"); err == nil {
		t.Error("ParseKind(bogus) should fail")
	}
	if KindTime.String() != "time" || KindSlot.String() != "slot" || Kind(9).String() != "unknown" {
		t.Error("Kind.String() mismatch")
	}
}

func TestMinSizeIsOneStep(t *testing.T) {
	if got := (Config{}).MinSize(); got != 1 {
		t.Errorf("default MinSize = %d, want 1", got)
	}
	if got := (Config{Step: 4}).MinSize(); got != 4 {
		t.Errorf("MinSize with step 4 = %d, want 4", got)
	}
}
