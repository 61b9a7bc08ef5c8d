package extract

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
)

// RasterConfig holds scanned-PDF conversion settings.
type RasterConfig struct {
	Pdftoppm string // binary name or absolute path; if empty -> "pdftoppm"
	DPI      int    // rasterization resolution, default 300
}

// Rasterizer converts page 1 of a PDF into a single PNG via pdftoppm.
type Rasterizer struct {
	cfg    RasterConfig
	runner Runner
	logger *slog.Logger
}

func NewRasterizer(cfg RasterConfig, logger *slog.Logger) *Rasterizer {
	if cfg.Pdftoppm == "" {
		cfg.Pdftoppm = "pdftoppm"
	}
	if cfg.DPI <= 0 {
		cfg.DPI = 300
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Rasterizer{cfg: cfg, runner: execRunner{}, logger: logger}
}

// RasterizeFirstPage renders only the first page; later pages never reach the
// visual extractor. Temp artifacts are removed regardless of outcome.
func (r *Rasterizer) RasterizeFirstPage(ctx context.Context, data []byte) ([]byte, error) {
	tmpDir, err := os.MkdirTemp("", "ri-raster-*")
	if err != nil {
		return nil, fmt.Errorf("%w: temp dir: %v", ErrRasterizationFailed, err)
	}
	defer func(path string) {
		if rmErr := os.RemoveAll(path); rmErr != nil {
			r.logger.Warn("raster.tmp_cleanup_failed", "path", path, "error", rmErr)
		}
	}(tmpDir)

	in := filepath.Join(tmpDir, "in.pdf")
	if err := os.WriteFile(in, data, 0o600); err != nil {
		return nil, fmt.Errorf("%w: write input: %v", ErrRasterizationFailed, err)
	}

	// pdftoppm -f 1 -l 1 -singlefile -r <dpi> -png <in.pdf> <tmp/page>
	prefix := filepath.Join(tmpDir, "page")
	_, errb, err := r.runner.Run(ctx, r.cfg.Pdftoppm,
		"-f", "1", "-l", "1", "-singlefile",
		"-r", strconv.Itoa(r.cfg.DPI), "-png", in, prefix)
	if err != nil {
		return nil, fmt.Errorf("%w: pdftoppm: %v: %s", ErrRasterizationFailed, err, truncate(string(errb), 512))
	}

	out, err := os.ReadFile(prefix + ".png")
	if err != nil {
		return nil, fmt.Errorf("%w: no output rendered: %v", ErrRasterizationFailed, err)
	}
	return out, nil
}
