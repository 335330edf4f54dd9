package pixelate

import (
	"bytes"
	"context"
	"errors"
	"image/color"
	"maps"
	"math"
	"math/rand/v2"
	"strings"
	"testing"

	"github.com/hashicorp/go-hclog"

	"github.com/jmylchreest/beadgrid/internal/palette"
)

func TestRunSolidRed(t *testing.T) {
	pal := newPalette(t, "R1", "#FF0000", "T1", "#FFFFFF")
	r := solidRaster(t, 2, 2, red)

	res, err := Run(context.Background(), r, Options{
		Cols:           2,
		Threshold:      0,
		Palette:        pal,
		BackgroundKeys: []string{"T1"},
	})
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	if res.Cols != 2 || res.Rows != 2 {
		t.Fatalf("Run() grid = %dx%d, want 2x2", res.Cols, res.Rows)
	}
	for i, c := range res.Grid.Cells {
		if c != (Cell{Key: "R1", Hex: "#FF0000"}) {
			t.Errorf("cell %d = %+v, want internal R1", i, c)
		}
	}

	want := ColourCounts{"R1": {Count: 4, Hex: "#FF0000"}}
	if !maps.Equal(res.Counts, want) {
		t.Errorf("Run() counts = %v, want %v", res.Counts, want)
	}
	if res.Total != 4 {
		t.Errorf("Run() total = %d, want 4", res.Total)
	}
}

func TestRunBackgroundRow(t *testing.T) {
	pal := newPalette(t, "R1", "#FF0000", "T1", "#FFFFFF")
	r := rasterOf(t, []color.NRGBA{white, red, white})

	res, err := Run(context.Background(), r, Options{
		Cols:           3,
		Palette:        pal,
		BackgroundKeys: []string{"T1"},
	})
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	if !res.Grid.At(0, 0).External || !res.Grid.At(2, 0).External {
		t.Error("border T1 cells should be external")
	}
	if res.Grid.At(1, 0).External {
		t.Error("R1 cell should stay internal")
	}
	want := ColourCounts{"R1": {Count: 1, Hex: "#FF0000"}}
	if !maps.Equal(res.Counts, want) {
		t.Errorf("Run() counts = %v, want %v", res.Counts, want)
	}
	if res.ExternalCells != 2 {
		t.Errorf("Run() external cells = %d, want 2", res.ExternalCells)
	}
}

func TestRunEmptyPalette(t *testing.T) {
	r := solidRaster(t, 2, 2, red)
	full := newPalette(t, "R1", "#FF0000")

	for name, pal := range map[string]*palette.Palette{
		"nil palette":     nil,
		"all excluded":    full.Without("R1"),
		"empty by subset": full.Subset(nil),
	} {
		t.Run(name, func(t *testing.T) {
			res, err := Run(context.Background(), r, Options{Cols: 2, Palette: pal})
			if !errors.Is(err, ErrEmptyPalette) {
				t.Errorf("Run() error = %v, want ErrEmptyPalette", err)
			}
			if res != nil {
				t.Error("Run() returned a result with an error")
			}
		})
	}
}

func TestOptionsValidate(t *testing.T) {
	pal := newPalette(t, "R1", "#FF0000")

	tests := []struct {
		name    string
		opts    Options
		wantErr error
	}{
		{name: "defaults", opts: Options{Cols: 10, Palette: pal}},
		{name: "zero cols", opts: Options{Cols: 0, Palette: pal}, wantErr: ErrInvalidDimensions},
		{name: "negative threshold", opts: Options{Cols: 10, Threshold: -1, Palette: pal}, wantErr: ErrInvalidThreshold},
		{name: "NaN threshold", opts: Options{Cols: 10, Threshold: math.NaN(), Palette: pal}, wantErr: ErrInvalidThreshold},
		{name: "bad mode", opts: Options{Cols: 10, Mode: "median", Palette: pal}, wantErr: ErrInvalidMode},
		{name: "bad strategy", opts: Options{Cols: 10, Strategy: "kmeans", Palette: pal}, wantErr: ErrInvalidStrategy},
		{name: "no palette", opts: Options{Cols: 10}, wantErr: ErrEmptyPalette},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.opts.Validate()
			if tt.wantErr == nil {
				if err != nil {
					t.Errorf("Validate() error = %v", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Validate() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestRunDeterministic(t *testing.T) {
	pal := newPalette(t,
		"K1", "#000000", "T1", "#FFFFFF", "R1", "#FF0000", "R2", "#E01010",
		"G1", "#00FF00", "B1", "#0000FF", "B2", "#1010E0", "H1", "#F0F0F0",
	)

	rng := rand.New(rand.NewPCG(3, 5)) // #nosec G404 - deterministic test data
	pix := make([]uint8, 64*48*4)
	for i := range pix {
		pix[i] = uint8(rng.IntN(256)) // #nosec G115 - IntN(256) fits in uint8
	}
	r, err := NewRaster(64, 48, pix)
	if err != nil {
		t.Fatalf("NewRaster() error = %v", err)
	}

	for _, strategy := range MergeStrategies() {
		for _, mode := range Modes() {
			opts := Options{Cols: 16, Threshold: 60, Mode: mode, Strategy: strategy, Palette: pal, Workers: 1}
			first, err := Run(context.Background(), r, opts)
			if err != nil {
				t.Fatalf("Run() error = %v", err)
			}

			opts.Workers = 4
			second, err := Run(context.Background(), r, opts)
			if err != nil {
				t.Fatalf("Run() error = %v", err)
			}

			if !first.Grid.Equal(second.Grid) || !maps.Equal(first.Counts, second.Counts) || first.Total != second.Total {
				t.Errorf("Run(%s, %s) is not deterministic", strategy, mode)
			}
			if first.Rows != 12 {
				t.Errorf("Run() rows = %d, want 12", first.Rows)
			}
		}
	}
}

func TestRunTransparentUsesFallback(t *testing.T) {
	pal := newPalette(t, "R1", "#FF0000", "K1", "#000000", "W9", "#FFFFFF")
	r := rasterOf(t,
		[]color.NRGBA{transparent, transparent},
		[]color.NRGBA{red, red},
	)

	res, err := Run(context.Background(), r, Options{
		Cols:           2,
		Palette:        pal,
		BackgroundKeys: []string{"W9"},
	})
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	if res.Fallback.Key != "W9" {
		t.Errorf("Run() fallback = %s, want first white W9", res.Fallback.Key)
	}
	if res.FallbackCells != 2 {
		t.Errorf("Run() fallback cells = %d, want 2", res.FallbackCells)
	}
	if res.Total != 2 || res.Counts["R1"].Count != 2 {
		t.Errorf("Run() counts = %v, total = %d", res.Counts, res.Total)
	}
}

func TestRunCancelled(t *testing.T) {
	pal := newPalette(t, "R1", "#FF0000")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	res, err := Run(ctx, solidRaster(t, 4, 4, red), Options{Cols: 4, Palette: pal})
	if !errors.Is(err, context.Canceled) {
		t.Errorf("Run() error = %v, want context.Canceled", err)
	}
	if res != nil {
		t.Error("Run() returned a result for a cancelled context")
	}
}

func TestRunLogsStages(t *testing.T) {
	var buf bytes.Buffer
	log := hclog.New(&hclog.LoggerOptions{Name: "test", Output: &buf, Level: hclog.Debug})

	pal := newPalette(t, "R1", "#FF0000", "T1", "#FFFFFF")
	r := solidRaster(t, 2, 2, red)
	if _, err := Run(context.Background(), r, Options{Cols: 2, Palette: pal, Logger: log}); err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if !strings.Contains(buf.String(), "quantized grid") {
		t.Errorf("debug log missing stage timing, got:\n%s", buf.String())
	}
}
