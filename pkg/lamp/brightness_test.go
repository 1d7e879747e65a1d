package lamp

import "testing"

func TestBrightnessRoundTrip(t *testing.T) {
	for e := 0; e <= 255; e++ {
		got := int(ToExternal(ToPercent(uint8(e))))
		if diff := got - e; diff < -1 || diff > 1 {
			t.Errorf("round trip of %d = %d, off by more than 1", e, got)
		}
	}
}

func TestBrightnessConversions(t *testing.T) {
	if got := ToExternal(40); got != 102 {
		t.Errorf("ToExternal(40) = %d, want 102", got)
	}
	if got := ToPercent(200); got != 78 {
		t.Errorf("ToPercent(200) = %d, want 78", got)
	}
	if got := ToExternal(100); got != 255 {
		t.Errorf("ToExternal(100) = %d, want 255", got)
	}
	if got := ToPercent(255); got != 100 {
		t.Errorf("ToPercent(255) = %d, want 100", got)
	}
	if got := ToExternal(0); got != 0 {
		t.Errorf("ToExternal(0) = %d, want 0", got)
	}
}

func TestToExternalClamps(t *testing.T) {
	if got := ToExternal(-5); got != 0 {
		t.Errorf("ToExternal(-5) = %d, want 0", got)
	}
	if got := ToExternal(140); got != 255 {
		t.Errorf("ToExternal(140) = %d, want 255", got)
	}
}
