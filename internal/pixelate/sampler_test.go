package pixelate

import (
	"errors"
	"image"
	"image/color"
	"testing"

	"github.com/jmylchreest/beadgrid/internal/colour"
)

// rasterOf builds a raster from rows of pixels.
func rasterOf(t testing.TB, rows ...[]color.NRGBA) *Raster {
	t.Helper()
	h := len(rows)
	w := len(rows[0])
	pix := make([]uint8, 0, w*h*4)
	for _, row := range rows {
		if len(row) != w {
			t.Fatalf("rasterOf() rows must have equal length")
		}
		for _, c := range row {
			pix = append(pix, c.R, c.G, c.B, c.A)
		}
	}
	r, err := NewRaster(w, h, pix)
	if err != nil {
		t.Fatalf("NewRaster() error = %v", err)
	}
	return r
}

// solidRaster builds a w x h raster of one colour.
func solidRaster(t testing.TB, w, h int, c color.NRGBA) *Raster {
	t.Helper()
	rows := make([][]color.NRGBA, h)
	for y := range rows {
		rows[y] = make([]color.NRGBA, w)
		for x := range rows[y] {
			rows[y][x] = c
		}
	}
	return rasterOf(t, rows...)
}

var (
	red         = color.NRGBA{R: 255, A: 255}
	green       = color.NRGBA{G: 255, A: 255}
	blue        = color.NRGBA{B: 255, A: 255}
	white       = color.NRGBA{R: 255, G: 255, B: 255, A: 255}
	transparent = color.NRGBA{R: 12, G: 34, B: 56, A: 0}
)

func TestSampleDominant(t *testing.T) {
	tests := []struct {
		name   string
		pixels [][]color.NRGBA
		want   colour.RGB
	}{
		{
			name:   "majority wins",
			pixels: [][]color.NRGBA{{red, green}, {green, blue}},
			want:   colour.RGB{G: 255},
		},
		{
			name:   "tie goes to first seen",
			pixels: [][]color.NRGBA{{blue, red}, {red, blue}},
			want:   colour.RGB{B: 255},
		},
		{
			name:   "transparent pixels ignored",
			pixels: [][]color.NRGBA{{transparent, transparent}, {transparent, red}},
			want:   colour.RGB{R: 255},
		},
		{
			name:   "alpha at threshold counts",
			pixels: [][]color.NRGBA{{{R: 10, G: 20, B: 30, A: 128}}},
			want:   colour.RGB{R: 10, G: 20, B: 30},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := rasterOf(t, tt.pixels...)
			got, ok := Sample(r, 0, 0, r.Width, r.Height, ModeDominant)
			if !ok {
				t.Fatal("Sample() reported no colour")
			}
			if got != tt.want {
				t.Errorf("Sample() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestSampleAverage(t *testing.T) {
	tests := []struct {
		name   string
		pixels [][]color.NRGBA
		want   colour.RGB
	}{
		{
			name:   "red and blue",
			pixels: [][]color.NRGBA{{red, blue}},
			want:   colour.RGB{R: 128, B: 128},
		},
		{
			name:   "rounds half up",
			pixels: [][]color.NRGBA{{{R: 1, G: 2, B: 3, A: 255}, {R: 2, G: 3, B: 4, A: 255}}},
			want:   colour.RGB{R: 2, G: 3, B: 4},
		},
		{
			name:   "rounds down below half",
			pixels: [][]color.NRGBA{{{R: 1, A: 255}, {A: 255}, {A: 255}}},
			want:   colour.RGB{},
		},
		{
			name:   "transparent pixels ignored",
			pixels: [][]color.NRGBA{{white, transparent}, {{R: 253, G: 253, B: 253, A: 200}, transparent}},
			want:   colour.RGB{R: 254, G: 254, B: 254},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := rasterOf(t, tt.pixels...)
			got, ok := Sample(r, 0, 0, r.Width, r.Height, ModeAverage)
			if !ok {
				t.Fatal("Sample() reported no colour")
			}
			if got != tt.want {
				t.Errorf("Sample() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestSampleNoColour(t *testing.T) {
	r := rasterOf(t, []color.NRGBA{transparent, {A: 127}})

	for _, mode := range Modes() {
		if _, ok := Sample(r, 0, 0, 2, 1, mode); ok {
			t.Errorf("Sample(%s) over transparent pixels should report no colour", mode)
		}
		if _, ok := Sample(r, 0, 0, 0, 1, mode); ok {
			t.Errorf("Sample(%s) over an empty box should report no colour", mode)
		}
	}
}

func TestSampleSubRegion(t *testing.T) {
	r := rasterOf(t,
		[]color.NRGBA{red, red, blue},
		[]color.NRGBA{red, red, blue},
	)

	got, ok := Sample(r, 2, 0, 1, 2, ModeDominant)
	if !ok || got != (colour.RGB{B: 255}) {
		t.Errorf("Sample() of right column = %v, %v; want blue", got, ok)
	}
}

func TestParseMode(t *testing.T) {
	tests := []struct {
		input   string
		want    Mode
		wantErr bool
	}{
		{input: "", want: ModeDominant},
		{input: "dominant", want: ModeDominant},
		{input: " Average ", want: ModeAverage},
		{input: "median", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseMode(tt.input)
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidMode) {
					t.Errorf("ParseMode(%q) error = %v, want ErrInvalidMode", tt.input, err)
				}
				return
			}
			if err != nil || got != tt.want {
				t.Errorf("ParseMode(%q) = %v, %v; want %v", tt.input, got, err, tt.want)
			}
		})
	}
}

func TestRasterFromImage(t *testing.T) {
	img := image.NewRGBA(image.Rect(5, 5, 7, 6))
	img.Set(5, 5, color.RGBA{R: 255, A: 255})
	img.Set(6, 5, color.RGBA{})

	r, err := RasterFromImage(img)
	if err != nil {
		t.Fatalf("RasterFromImage() error = %v", err)
	}
	if r.Width != 2 || r.Height != 1 {
		t.Fatalf("RasterFromImage() size = %dx%d, want 2x1", r.Width, r.Height)
	}
	if got := r.At(0, 0); got != red {
		t.Errorf("At(0, 0) = %v, want %v", got, red)
	}
	if got := r.At(1, 0); got.A != 0 {
		t.Errorf("At(1, 0) alpha = %d, want 0", got.A)
	}

	if _, err := RasterFromImage(image.NewNRGBA(image.Rect(0, 0, 0, 3))); !errors.Is(err, ErrInvalidDimensions) {
		t.Errorf("RasterFromImage() of empty image error = %v, want ErrInvalidDimensions", err)
	}
}

func TestNewRasterValidation(t *testing.T) {
	if _, err := NewRaster(2, 2, make([]uint8, 15)); err == nil {
		t.Error("NewRaster() with short buffer should fail")
	}
	if _, err := NewRaster(0, 2, nil); !errors.Is(err, ErrInvalidDimensions) {
		t.Errorf("NewRaster() with zero width error = %v, want ErrInvalidDimensions", err)
	}
}
