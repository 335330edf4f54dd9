package pixelate

import (
	"context"
	"errors"
	"image/color"
	"math/rand/v2"
	"testing"
)

func TestGridSize(t *testing.T) {
	tests := []struct {
		name       string
		w, h, cols int
		wantRows   int
		wantErr    bool
	}{
		{name: "square", w: 100, h: 100, cols: 50, wantRows: 50},
		{name: "landscape", w: 200, h: 100, cols: 50, wantRows: 25},
		{name: "portrait", w: 100, h: 300, cols: 10, wantRows: 30},
		{name: "rounds to nearest", w: 3, h: 2, cols: 5, wantRows: 3},
		{name: "very wide keeps one row", w: 1000, h: 1, cols: 10, wantRows: 1},
		{name: "zero cols", w: 10, h: 10, cols: 0, wantErr: true},
		{name: "empty image", w: 0, h: 10, cols: 5, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cols, rows, err := GridSize(tt.w, tt.h, tt.cols)
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidDimensions) {
					t.Errorf("GridSize() error = %v, want ErrInvalidDimensions", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("GridSize() error = %v", err)
			}
			if cols != tt.cols || rows != tt.wantRows {
				t.Errorf("GridSize() = %d, %d; want %d, %d", cols, rows, tt.cols, tt.wantRows)
			}
		})
	}
}

func TestCellBounds(t *testing.T) {
	tests := []struct {
		name    string
		size, n int
		want    [][2]int
	}{
		{name: "even split", size: 4, n: 2, want: [][2]int{{0, 2}, {2, 4}}},
		{name: "uneven split overlaps", size: 5, n: 2, want: [][2]int{{0, 3}, {2, 5}}},
		{name: "more cells than pixels", size: 2, n: 4, want: [][2]int{{0, 1}, {0, 1}, {1, 2}, {1, 2}}},
		{name: "one cell", size: 7, n: 1, want: [][2]int{{0, 7}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for i, want := range tt.want {
				start, end := CellBounds(i, tt.size, tt.n)
				if start != want[0] || end != want[1] {
					t.Errorf("CellBounds(%d) = [%d, %d), want [%d, %d)", i, start, end, want[0], want[1])
				}
				if end-start < 1 || end > tt.size {
					t.Errorf("CellBounds(%d) = [%d, %d) is outside 1..%d", i, start, end, tt.size)
				}
			}
		})
	}
}

func TestQuantize(t *testing.T) {
	pal := newPalette(t, "R1", "#FF0000", "B1", "#0000FF", "T1", "#FFFFFF")
	fallback := lookup(t, pal, "T1")

	r := rasterOf(t,
		[]color.NRGBA{red, red, blue, blue},
		[]color.NRGBA{{R: 240, G: 20, B: 10, A: 255}, red, blue, transparent},
		[]color.NRGBA{transparent, transparent, blue, blue},
		[]color.NRGBA{transparent, transparent, blue, blue},
	)

	g, err := Quantize(context.Background(), r, 2, 2, pal, ModeAverage, fallback, 1)
	if err != nil {
		t.Fatalf("Quantize() error = %v", err)
	}

	want := [][]string{{"R1", "B1"}, {"T1", "B1"}}
	for row := range want {
		for col, key := range want[row] {
			if got := g.At(col, row).Key; got != key {
				t.Errorf("cell %d,%d = %s, want %s", col, row, got, key)
			}
		}
	}
}

func TestQuantizeWorkerCountIndependent(t *testing.T) {
	pal := newPalette(t,
		"K1", "#000000", "W1", "#FFFFFF", "R1", "#FF0000", "G1", "#00FF00",
		"B1", "#0000FF", "Y1", "#FFFF00", "C1", "#00FFFF", "M1", "#FF00FF",
	)
	fallback := lookup(t, pal, "W1")

	rng := rand.New(rand.NewPCG(7, 11)) // #nosec G404 - deterministic test data
	pix := make([]uint8, 97*61*4)
	for i := range pix {
		pix[i] = uint8(rng.IntN(256)) // #nosec G115 - IntN(256) fits in uint8
	}
	r, err := NewRaster(97, 61, pix)
	if err != nil {
		t.Fatalf("NewRaster() error = %v", err)
	}

	for _, mode := range Modes() {
		base, err := Quantize(context.Background(), r, 20, 13, pal, mode, fallback, 1)
		if err != nil {
			t.Fatalf("Quantize() error = %v", err)
		}
		for _, workers := range []int{0, 2, 5, 13, 64} {
			g, err := Quantize(context.Background(), r, 20, 13, pal, mode, fallback, workers)
			if err != nil {
				t.Fatalf("Quantize(workers=%d) error = %v", workers, err)
			}
			if !base.Equal(g) {
				t.Errorf("Quantize(%s, workers=%d) differs from single worker result", mode, workers)
			}
		}
	}
}

func TestQuantizeErrors(t *testing.T) {
	pal := newPalette(t, "R1", "#FF0000", "T1", "#FFFFFF")
	fallback := lookup(t, pal, "T1")
	r := solidRaster(t, 4, 4, red)

	if _, err := Quantize(context.Background(), r, 2, 2, pal.Without("R1", "T1"), ModeDominant, fallback, 1); !errors.Is(err, ErrEmptyPalette) {
		t.Errorf("Quantize() with empty palette error = %v, want ErrEmptyPalette", err)
	}
	if _, err := Quantize(context.Background(), r, 0, 2, pal, ModeDominant, fallback, 1); !errors.Is(err, ErrInvalidDimensions) {
		t.Errorf("Quantize() with zero cols error = %v, want ErrInvalidDimensions", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := Quantize(ctx, r, 2, 2, pal, ModeDominant, fallback, 2); !errors.Is(err, context.Canceled) {
		t.Errorf("Quantize() with cancelled context error = %v, want context.Canceled", err)
	}
}

func TestQuantizeTinyImage(t *testing.T) {
	pal := newPalette(t, "R1", "#FF0000", "T1", "#FFFFFF")
	fallback := lookup(t, pal, "T1")
	r := solidRaster(t, 1, 1, red)

	g, fallbacks, err := quantize(context.Background(), r, 5, 3, pal, ModeDominant, fallback, 0)
	if err != nil {
		t.Fatalf("quantize() error = %v", err)
	}
	if fallbacks != 0 {
		t.Errorf("quantize() fallbacks = %d, want 0", fallbacks)
	}
	for i, c := range g.Cells {
		if c.Key != "R1" {
			t.Errorf("cell %d = %s, want R1", i, c.Key)
		}
	}
}
