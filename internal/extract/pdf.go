package extract

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"docpipe/internal/vision"
)

// extractPDF rasterizes each page and recognizes them concurrently. A failed
// page becomes an inline marker at its position; the document only fails as a
// whole when it cannot be rasterized at either resolution.
func (e *Extractor) extractPDF(ctx context.Context, path string) (string, int, error) {
	const op = "extractPDF"

	images, err := e.rasterize(ctx, path, e.cfg.DPI)
	if err != nil {
		e.log.Warn().
			Err(err).
			Str("file", filepath.Base(path)).
			Int("dpi", e.cfg.DPI).
			Int("fallback_dpi", e.cfg.FallbackDPI).
			Msg("Rasterization failed, retrying at fallback resolution")
		images, err = e.rasterize(ctx, path, e.cfg.FallbackDPI)
		if err != nil {
			return "", 0, WrapExtractionError(op, ErrRasterizeFailed, err.Error())
		}
	}
	if len(images) == 0 {
		return "", 0, WrapExtractionError(op, ErrNoPages, "")
	}

	// Pages run independently so a corrupt page cannot block its siblings;
	// the shared gate still bounds how many calls are in flight.
	texts := make([]string, len(images))
	errs := make([]error, len(images))
	var wg sync.WaitGroup
	for i, img := range images {
		wg.Add(1)
		go func(i int, img []byte) {
			defer wg.Done()
			texts[i], errs[i] = e.recognizePage(ctx, vision.Page{
				Data:   img,
				MIME:   "image/jpeg",
				Number: i + 1,
			})
		}(i, img)
	}
	wg.Wait()

	// Recombine in page-index order regardless of completion order.
	var b strings.Builder
	failed := 0
	for i := range texts {
		if errs[i] != nil {
			failed++
			e.log.Error().
				Err(errs[i]).
				Str("file", filepath.Base(path)).
				Int("page", i+1).
				Msg("Page extraction failed")
			fmt.Fprintf(&b, "\n[Page %d extraction failed]\n", i+1)
			continue
		}
		fmt.Fprintf(&b, "\n--- Page %d ---\n%s\n", i+1, texts[i])
	}

	if failed == len(texts) {
		return "", len(images), WrapExtractionError(op, ErrAllPagesFailed, fmt.Sprintf("%d pages", failed))
	}

	return b.String(), len(images), nil
}

// rasterize renders the PDF to per-page JPEG images at the given resolution.
func (e *Extractor) rasterize(ctx context.Context, path string, dpi int) ([][]byte, error) {
	const op = "rasterize"

	tmpDir, err := os.MkdirTemp("", "docpipe-pages-*")
	if err != nil {
		return nil, WrapExtractionError(op, err, "")
	}
	defer func() {
		if rmErr := os.RemoveAll(tmpDir); rmErr != nil {
			e.log.Warn().Err(rmErr).Str("dir", tmpDir).Msg("Failed to remove temp dir")
		}
	}()

	prefix := filepath.Join(tmpDir, "page")
	// pdftoppm -r <dpi> -jpeg <in.pdf> <tmp/page>
	_, errb, err := e.runner.Run(ctx, e.cfg.Pdftoppm, "-r", fmt.Sprintf("%d", dpi), "-jpeg", path, prefix)
	if err != nil {
		return nil, WrapExtractionError(op, err, truncate(string(errb), 1<<10))
	}

	// pdftoppm zero-pads page numbers, so lexical order is page order
	matches, _ := filepath.Glob(prefix + "-*.jpg")
	sort.Strings(matches)
	if len(matches) == 0 {
		return nil, WrapExtractionError(op, ErrNoPages, "rasterizer produced no images")
	}

	images := make([][]byte, 0, len(matches))
	for _, m := range matches {
		data, err := os.ReadFile(m)
		if err != nil {
			return nil, WrapExtractionError(op, err, m)
		}
		images = append(images, data)
	}
	return images, nil
}
