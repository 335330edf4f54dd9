package pixelate

import (
	"context"
	"fmt"
	"math"
	"runtime"
	"sync"
	"sync/atomic"

	"github.com/jmylchreest/beadgrid/internal/palette"
)

// GridSize returns the grid columns and rows for an image. Rows follow the image
// aspect ratio: max(1, round(cols * imgH / imgW)).
func GridSize(imgW, imgH, cols int) (int, int, error) {
	if cols <= 0 {
		return 0, 0, fmt.Errorf("%w: %d columns", ErrInvalidDimensions, cols)
	}
	if imgW <= 0 || imgH <= 0 {
		return 0, 0, fmt.Errorf("%w: image %dx%d", ErrInvalidDimensions, imgW, imgH)
	}
	rows := max(1, int(math.Round(float64(cols)*float64(imgH)/float64(imgW))))
	return cols, rows, nil
}

// CellBounds returns the pixel span [start, end) covered by cell i when a
// dimension of size pixels is divided into n cells. The start is
// floor(i*size/n), the end ceil((i+1)*size/n) clamped to size, and the span is
// always at least one pixel wide.
func CellBounds(i, size, n int) (int, int) {
	start := i * size / n
	end := min(size, ((i+1)*size+n-1)/n)
	if end-start < 1 {
		end = start + 1
	}
	return start, end
}

// Quantize samples every cell of a cols x rows grid over r and maps the sampled
// colour to the nearest colour of pal. Cells without a usable colour get
// fallback. Rows are shared between workers goroutines; workers <= 0 uses one
// per CPU. The grid does not depend on the worker count.
func Quantize(ctx context.Context, r *Raster, cols, rows int, pal *palette.Palette, mode Mode, fallback palette.Colour, workers int) (*Grid, error) {
	g, _, err := quantize(ctx, r, cols, rows, pal, mode, fallback, workers)
	return g, err
}

// quantize is Quantize that also reports how many cells fell back.
func quantize(ctx context.Context, r *Raster, cols, rows int, pal *palette.Palette, mode Mode, fallback palette.Colour, workers int) (*Grid, int, error) {
	if pal.Len() == 0 {
		return nil, 0, ErrEmptyPalette
	}
	if r == nil || r.Width <= 0 || r.Height <= 0 {
		return nil, 0, fmt.Errorf("%w: empty raster", ErrInvalidDimensions)
	}
	g, err := NewGrid(cols, rows)
	if err != nil {
		return nil, 0, err
	}

	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	workers = clampInt(workers, 1, rows)

	var (
		wg        sync.WaitGroup
		fallbacks atomic.Int64
		errOnce   sync.Once
		firstErr  error
	)
	for worker := range workers {
		startRow, endRow := splitRange(rows, workers, worker)
		wg.Add(1)
		go func(start, end int) {
			defer wg.Done()
			for row := start; row < end; row++ {
				if err := ctx.Err(); err != nil {
					errOnce.Do(func() { firstErr = err })
					return
				}
				n, err := quantizeRow(g, r, row, pal, mode, fallback)
				if err != nil {
					errOnce.Do(func() { firstErr = err })
					return
				}
				fallbacks.Add(int64(n))
			}
		}(startRow, endRow)
	}
	wg.Wait()

	if firstErr != nil {
		return nil, 0, firstErr
	}
	return g, int(fallbacks.Load()), nil
}

// quantizeRow fills one grid row and returns the number of fallback cells.
func quantizeRow(g *Grid, r *Raster, row int, pal *palette.Palette, mode Mode, fallback palette.Colour) (int, error) {
	y0, y1 := CellBounds(row, r.Height, g.Rows)
	fallbacks := 0

	for col := range g.Cols {
		x0, x1 := CellBounds(col, r.Width, g.Cols)
		if x1 > r.Width || y1 > r.Height {
			g.Set(col, row, cellFor(fallback))
			fallbacks++
			continue
		}

		rgb, ok := Sample(r, x0, y0, x1-x0, y1-y0, mode)
		if !ok {
			g.Set(col, row, cellFor(fallback))
			fallbacks++
			continue
		}

		closest, err := pal.FindClosest(rgb)
		if err != nil {
			return 0, fmt.Errorf("failed to match cell %d,%d: %w", col, row, err)
		}
		g.Set(col, row, cellFor(closest))
	}

	return fallbacks, nil
}

// splitRange divides length items between workers and returns the range of
// the given worker.
func splitRange(length, workers, workerIndex int) (int, int) {
	chunkSize := length / workers
	remainder := length % workers
	start := workerIndex*chunkSize + min(workerIndex, remainder)
	end := start + chunkSize
	if workerIndex < remainder {
		end++
	}
	return start, end
}

func clampInt(value, minimum, maximum int) int {
	if value < minimum {
		return minimum
	}
	if value > maximum {
		return maximum
	}
	return value
}
