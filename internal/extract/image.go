package extract

import (
	"bytes"
	"context"
	"image"
	"image/jpeg"
	"os"

	_ "image/png"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"docpipe/internal/vision"
)

// jpegQuality balances upload size against recognition fidelity.
const jpegQuality = 90

// extractImage normalizes the image to JPEG (the engines prefer it, and
// re-encoding flattens exotic color modes) and runs a single gated,
// retried recognition call.
func (e *Extractor) extractImage(ctx context.Context, path string) (string, error) {
	const op = "extractImage"

	f, err := os.Open(path)
	if err != nil {
		return "", WrapExtractionError(op, ErrInvalidDocument, err.Error())
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return "", WrapExtractionError(op, ErrInvalidDocument, err.Error())
	}

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: jpegQuality}); err != nil {
		return "", WrapExtractionError(op, err, "JPEG re-encode failed")
	}

	text, err := e.recognizePage(ctx, vision.Page{
		Data:   buf.Bytes(),
		MIME:   "image/jpeg",
		Number: 1,
	})
	if err != nil {
		return "", WrapExtractionError(op, err, "")
	}
	return text, nil
}
