package keyboard

import "testing"

func TestLookupKeyShiftVariant(t *testing.T) {
	tests := []struct {
		name  string
		code  uint16
		shift bool
		want  string
	}{
		{"digit unshifted", 0x02, false, "1"},
		{"digit shifted", 0x02, true, "!"},
		{"letter ignores shift", 0x2c, true, "z"},
		{"named key has no shift variant", 0x39, true, "space"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := lookupKey(tt.code, tt.shift)
			if !ok {
				t.Fatalf("lookupKey(%#x) not found", tt.code)
			}
			if got != tt.want {
				t.Errorf("lookupKey(%#x, shift=%v) = %q, want %q", tt.code, tt.shift, got, tt.want)
			}
		})
	}
}

func TestLookupKeyUnknownCode(t *testing.T) {
	if _, ok := lookupKey(0xfff, false); ok {
		t.Error("expected unknown scancode to report not found")
	}
}
