package colour

import (
	"image/color"
	"math"
	"strings"
	"testing"
)

func TestRGBHex(t *testing.T) {
	tests := []struct {
		name string
		rgb  RGB
		want string
	}{
		{
			name: "red",
			rgb:  RGB{R: 255, G: 0, B: 0},
			want: "#FF0000",
		},
		{
			name: "white",
			rgb:  RGB{R: 255, G: 255, B: 255},
			want: "#FFFFFF",
		},
		{
			name: "black",
			rgb:  RGB{R: 0, G: 0, B: 0},
			want: "#000000",
		},
		{
			name: "mixed",
			rgb:  RGB{R: 0x1a, G: 0x2b, B: 0x3c},
			want: "#1A2B3C",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.rgb.Hex(); got != tt.want {
				t.Errorf("Hex() = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestRGBString(t *testing.T) {
	rgb := RGB{R: 255, G: 128, B: 0}
	if got, want := rgb.String(), "rgb(255, 128, 0)"; got != want {
		t.Errorf("String() = %s, want %s", got, want)
	}
}

func TestParseHex(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		want   RGB
		wantOK bool
	}{
		{name: "with hash", input: "#FF0000", want: RGB{R: 255}, wantOK: true},
		{name: "without hash", input: "00ff00", want: RGB{G: 255}, wantOK: true},
		{name: "mixed case", input: "#aAbBcC", want: RGB{R: 0xaa, G: 0xbb, B: 0xcc}, wantOK: true},
		{name: "empty", input: "", wantOK: false},
		{name: "hash only", input: "#", wantOK: false},
		{name: "short form", input: "#FFF", wantOK: false},
		{name: "too long", input: "#FF00001", wantOK: false},
		{name: "invalid digit", input: "#GG0000", wantOK: false},
		{name: "double hash", input: "##FF000", wantOK: false},
		{name: "whitespace", input: " FF0000", wantOK: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ParseHex(tt.input)
			if ok != tt.wantOK {
				t.Fatalf("ParseHex(%q) ok = %v, want %v", tt.input, ok, tt.wantOK)
			}
			if ok && got != tt.want {
				t.Errorf("ParseHex(%q) = %+v, want %+v", tt.input, got, tt.want)
			}
		})
	}
}

func TestParseHexRoundTrip(t *testing.T) {
	for _, hex := range []string{"#000000", "#FFFFFF", "#FAF4C8", "#0F52BA"} {
		rgb, ok := ParseHex(hex)
		if !ok {
			t.Fatalf("ParseHex(%q) failed", hex)
		}
		if got := rgb.Hex(); got != hex {
			t.Errorf("ParseHex(%q).Hex() = %s", hex, got)
		}
	}
}

func TestMustParseHexPanics(t *testing.T) {
	defer func() {
		if r := recover(); r == nil {
			t.Error("MustParseHex() did not panic on invalid input")
		}
	}()
	MustParseHex("nope")
}

func TestDistance(t *testing.T) {
	tests := []struct {
		name string
		a, b RGB
		want float64
	}{
		{name: "identical", a: RGB{R: 10, G: 20, B: 30}, b: RGB{R: 10, G: 20, B: 30}, want: 0},
		{name: "single channel", a: RGB{R: 0}, b: RGB{R: 3}, want: 3},
		{name: "pythagorean", a: RGB{R: 0, G: 0}, b: RGB{R: 3, G: 4}, want: 5},
		{name: "black to white", a: Black, b: White, want: MaxDistance},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Distance(tt.a, tt.b); math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("Distance() = %f, want %f", got, tt.want)
			}
		})
	}
}

func TestDistanceSymmetry(t *testing.T) {
	samples := []RGB{
		{0, 0, 0}, {255, 255, 255}, {255, 0, 0}, {12, 200, 99}, {128, 128, 128}, {1, 2, 3},
	}

	for _, a := range samples {
		if d := Distance(a, a); d != 0 {
			t.Errorf("Distance(%v, %v) = %f, want 0", a, a, d)
		}
		for _, b := range samples {
			if Distance(a, b) != Distance(b, a) {
				t.Errorf("Distance(%v, %v) != Distance(%v, %v)", a, b, b, a)
			}
			if d := Distance(a, b); d < 0 || d > MaxDistance+1e-9 {
				t.Errorf("Distance(%v, %v) = %f out of range", a, b, d)
			}
		}
	}
}

func TestToRGB(t *testing.T) {
	tests := []struct {
		name  string
		color color.Color
		want  RGB
	}{
		{name: "opaque red", color: color.RGBA{R: 255, A: 255}, want: RGB{R: 255}},
		{name: "nrgba half alpha keeps channels", color: color.NRGBA{R: 200, G: 100, B: 50, A: 128}, want: RGB{R: 200, G: 100, B: 50}},
		{name: "grey", color: color.Gray{Y: 77}, want: RGB{R: 77, G: 77, B: 77}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ToRGB(tt.color); got != tt.want {
				t.Errorf("ToRGB() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestContrastText(t *testing.T) {
	tests := []struct {
		name string
		bg   RGB
		want RGB
	}{
		{name: "white background", bg: White, want: Black},
		{name: "black background", bg: Black, want: White},
		{name: "yellow background", bg: RGB{R: 255, G: 255, B: 0}, want: Black},
		{name: "navy background", bg: RGB{R: 0, G: 0, B: 128}, want: White},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ContrastText(tt.bg); got != tt.want {
				t.Errorf("ContrastText(%s) = %s, want %s", tt.bg.Hex(), got.Hex(), tt.want.Hex())
			}
		})
	}
}

func TestContrastRatio(t *testing.T) {
	if got := ContrastRatio(Black, White); math.Abs(got-21) > 0.01 {
		t.Errorf("ContrastRatio(black, white) = %f, want 21", got)
	}
	if got := ContrastRatio(White, White); math.Abs(got-1) > 1e-9 {
		t.Errorf("ContrastRatio(white, white) = %f, want 1", got)
	}
}

func TestColourPreview(t *testing.T) {
	DisableColourOutput = false
	got := ColourPreview(RGB{R: 1, G: 2, B: 3}, 4)
	if !strings.Contains(got, "48;2;1;2;3") {
		t.Errorf("ColourPreview() missing background sequence: %q", got)
	}
	if !strings.HasSuffix(got, ansiReset) {
		t.Errorf("ColourPreview() not reset: %q", got)
	}

	DisableColourOutput = true
	defer func() { DisableColourOutput = false }()
	if got := ColourPreview(RGB{}, 3); got != "   " {
		t.Errorf("ColourPreview() with colour disabled = %q, want 3 spaces", got)
	}
	if got := ColourPreviewWithText(RGB{}, "A1", 4); got != " A1 " {
		t.Errorf("ColourPreviewWithText() with colour disabled = %q, want %q", got, " A1 ")
	}
}
