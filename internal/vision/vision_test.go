package vision

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStubEngineDefaults(t *testing.T) {
	eng := NewStubEngine()

	text, err := eng.Generate(context.Background(), Page{Number: 3})
	require.NoError(t, err)
	assert.Equal(t, "[Placeholder OCR text from page 3]", text)
	assert.EqualValues(t, 1, eng.Calls())
}

func TestStubEngineInjectedFailure(t *testing.T) {
	eng := NewStubEngine()
	eng.FailFunc = func(page Page) error {
		if page.Number == 2 {
			return errors.New("boom")
		}
		return nil
	}

	_, err := eng.Generate(context.Background(), Page{Number: 2})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrRecognitionFailed)

	_, err = eng.Generate(context.Background(), Page{Number: 1})
	require.NoError(t, err)
	assert.EqualValues(t, 2, eng.Calls())
}

func TestNewRejectsUnknownEngine(t *testing.T) {
	_, err := New(context.Background(), Config{Engine: "abbyy"})
	require.ErrorIs(t, err, ErrUnknownEngine)
}

func TestNewStub(t *testing.T) {
	eng, err := New(context.Background(), Config{Engine: "stub"})
	require.NoError(t, err)
	_, ok := eng.(*StubEngine)
	assert.True(t, ok)
}

func TestThrottledPassthrough(t *testing.T) {
	eng := NewStubEngine()

	// Non-positive rpm disables throttling entirely.
	assert.Equal(t, Engine(eng), Throttled(eng, 0))

	wrapped := Throttled(eng, 600)
	text, err := wrapped.Generate(context.Background(), Page{Number: 1})
	require.NoError(t, err)
	assert.Equal(t, "[Placeholder OCR text from page 1]", text)
	require.NoError(t, wrapped.Close())
}

func TestSubtypeOf(t *testing.T) {
	assert.Equal(t, "jpeg", subtypeOf("image/jpeg"))
	assert.Equal(t, "png", subtypeOf("image/png"))
	assert.Equal(t, "jpeg", subtypeOf("jpeg"))
}

func TestEngineErrorWrapping(t *testing.T) {
	err := WrapEngineError("Generate", ErrEmptyResponse, "no candidates")
	assert.ErrorIs(t, err, ErrEmptyResponse)
	assert.Contains(t, err.Error(), "Generate")

	// Double wrapping is a no-op.
	again := WrapEngineError("Outer", err, "")
	assert.Equal(t, err, again)

	assert.NoError(t, WrapEngineError("Generate", nil, ""))
}
