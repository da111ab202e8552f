package extract

import (
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestExtractPDFCombinesPagesInOrder(t *testing.T) {
	pdf := filepath.Join(t.TempDir(), "record.pdf")
	runner := &fakeRunner{
		pages: map[string][]string{
			pdf: {"first page text", "second page text", "third page text"},
		},
	}
	ex := newTestExtractor(t, echoEngine(), runner, 4)

	res := ex.Extract(context.Background(), pdf)
	require.True(t, res.Success)
	require.Equal(t, 3, res.Pages)

	// Pages recombine in index order regardless of completion order.
	i1 := strings.Index(res.Text, "--- Page 1 ---")
	i2 := strings.Index(res.Text, "--- Page 2 ---")
	i3 := strings.Index(res.Text, "--- Page 3 ---")
	require.True(t, i1 >= 0 && i1 < i2 && i2 < i3, "page headers out of order: %q", res.Text)
	require.Contains(t, res.Text, "first page text")
	require.Contains(t, res.Text, "third page text")
}

func TestExtractPDFFailedPageGetsInlineMarker(t *testing.T) {
	pdf := filepath.Join(t.TempDir(), "partial.pdf")
	runner := &fakeRunner{
		pages: map[string][]string{
			pdf: {"page one ok", "FAIL", "page three ok"},
		},
	}
	eng := echoEngine()
	ex := newTestExtractor(t, eng, runner, 4)

	res := ex.Extract(context.Background(), pdf)
	require.True(t, res.Success, "one bad page must not fail the document")

	require.Contains(t, res.Text, "page one ok")
	require.Contains(t, res.Text, "[Page 2 extraction failed]")
	require.Contains(t, res.Text, "page three ok")
	require.NotContains(t, res.Text, "--- Page 2 ---")

	// Marker sits between page 1 and page 3 content.
	marker := strings.Index(res.Text, "[Page 2 extraction failed]")
	require.Greater(t, marker, strings.Index(res.Text, "page one ok"))
	require.Less(t, marker, strings.Index(res.Text, "page three ok"))

	// Page 2 burned the full retry schedule: 1 + 1 + 3 calls.
	require.EqualValues(t, 5, eng.Calls())
}

func TestExtractPDFAllPagesFailedFailsDocument(t *testing.T) {
	pdf := filepath.Join(t.TempDir(), "hopeless.pdf")
	runner := &fakeRunner{
		pages: map[string][]string{
			pdf: {"FAIL", "FAIL"},
		},
	}
	ex := newTestExtractor(t, echoEngine(), runner, 4)

	res := ex.Extract(context.Background(), pdf)
	require.False(t, res.Success)
	require.Contains(t, res.FailureReason, "every page failed extraction")
}

func TestExtractPDFFallsBackToLowerDPI(t *testing.T) {
	pdf := filepath.Join(t.TempDir(), "large.pdf")
	runner := &fakeRunner{
		pages: map[string][]string{
			pdf: {"page rendered at low resolution"},
		},
		failDPI: map[string]bool{"200": true},
	}
	ex := newTestExtractor(t, echoEngine(), runner, 4)

	res := ex.Extract(context.Background(), pdf)
	require.True(t, res.Success)
	require.Contains(t, res.Text, "page rendered at low resolution")

	require.Len(t, runner.calls, 2)
	require.Contains(t, runner.calls[0], "-r 200")
	require.Contains(t, runner.calls[1], "-r 100")
}

func TestExtractPDFRasterizationFailureFailsDocument(t *testing.T) {
	pdf := filepath.Join(t.TempDir(), "unreadable.pdf")
	runner := &fakeRunner{
		pages:   map[string][]string{},
		failDPI: map[string]bool{"200": true, "100": true},
	}
	eng := echoEngine()
	ex := newTestExtractor(t, eng, runner, 4)

	res := ex.Extract(context.Background(), pdf)
	require.False(t, res.Success)
	require.Contains(t, res.FailureReason, "PDF rasterization failed")
	require.EqualValues(t, 0, eng.Calls())
}
