package render

import (
	"bytes"
	"testing"

	merrors "github.com/matzehuels/masonry/pkg/errors"
)

func TestRenderPNG(t *testing.T) {
	png, err := RenderPNG(scenarioA(t), WithScale(1))
	if !RSVGAvailable() {
		if !merrors.Is(err, merrors.ErrCodeUnsupported) {
			t.Errorf("RenderPNG() without rsvg-convert error = %v, want UNSUPPORTED", err)
		}
		return
	}
	if err != nil {
		t.Fatalf("RenderPNG() error: %v", err)
	}
	if !bytes.HasPrefix(png, []byte("\x89PNG")) {
		t.Error("RenderPNG() did not return a PNG")
	}
}
