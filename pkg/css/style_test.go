package css

import "testing"

func TestParseColor(t *testing.T) {
	tests := []struct {
		input    string
		expected Color
		ok       bool
	}{
		{"red", Color{255, 0, 0, 255}, true},
		{" Blue ", Color{0, 0, 255, 255}, true},
		{"#ff8000", Color{255, 128, 0, 255}, true},
		{"#0f0", Color{0, 255, 0, 255}, true},
		{"transparent", Color{0, 0, 0, 0}, true},
		{"#12345", Color{}, false},
		{"#gggggg", Color{}, false},
		{"notacolor", Color{}, false},
	}
	for _, tt := range tests {
		got, ok := ParseColor(tt.input)
		if ok != tt.ok || got != tt.expected {
			t.Errorf("ParseColor(%q) = %v, %v; want %v, %v", tt.input, got, ok, tt.expected, tt.ok)
		}
	}
}

func TestColor_RGBA(t *testing.T) {
	r, g, b, a := Color{255, 128, 0, 255}.RGBA()
	if r != 0xffff || g != 0x8080 || b != 0 || a != 0xffff {
		t.Errorf("unexpected RGBA %x %x %x %x", r, g, b, a)
	}
}

func TestParseLength(t *testing.T) {
	tests := []struct {
		input    string
		expected float64
		ok       bool
	}{
		{"16px", 16, true},
		{"30.0px", 30, true},
		{"12", 12, true},
		{"", 0, false},
		{"large", 0, false},
		{"NaNpx", 0, false},
		{"Infpx", 0, false},
		{"-inf", 0, false},
		{"1e9px", 1e9, true},
	}
	for _, tt := range tests {
		got, ok := ParseLength(tt.input)
		if ok != tt.ok || got != tt.expected {
			t.Errorf("ParseLength(%q) = %v, %v; want %v, %v", tt.input, got, ok, tt.expected, tt.ok)
		}
	}
}

func TestFormatPx(t *testing.T) {
	tests := map[float64]string{
		30:    "30.0px",
		14.4:  "14.4px",
		0:     "0.0px",
		17.25: "17.25px",
	}
	for in, want := range tests {
		if got := FormatPx(in); got != want {
			t.Errorf("FormatPx(%v) = %q, want %q", in, got, want)
		}
	}
}
