package render

import (
	"encoding/json"
	"testing"

	"github.com/google/go-cmp/cmp"

	merrors "github.com/matzehuels/masonry/pkg/errors"
	"github.com/matzehuels/masonry/pkg/grid"
	"github.com/matzehuels/masonry/pkg/items"
)

func scenarioA(t *testing.T) *grid.State {
	t.Helper()
	s, err := grid.Compute(grid.Input{Columns: 2, Width: 100, Count: 4, Heights: grid.Heights{10, 20, 30, 40}})
	if err != nil {
		t.Fatalf("Compute() error: %v", err)
	}
	return s
}

func TestBuildDocument(t *testing.T) {
	m := &items.Manifest{Items: []items.Item{
		{ID: "a", Label: "Alpha", Height: 10},
		{ID: "b", Height: 20},
		{ID: "c", Height: 30},
		{ID: "d", Height: 40},
	}}

	doc := BuildDocument(scenarioA(t), WithItems(m))

	want := Document{
		Width:       100,
		Height:      60,
		Columns:     2,
		ColumnWidth: 50,
		Placements: []PlacementDoc{
			{Index: 0, ID: "a", Label: "Alpha", Column: 0, X: 0, Y: 0, Width: 50, Height: 10},
			{Index: 1, ID: "b", Column: 1, X: 50, Y: 0, Width: 50, Height: 20},
			{Index: 2, ID: "c", Column: 0, X: 0, Y: 10, Width: 50, Height: 30},
			{Index: 3, ID: "d", Column: 1, X: 50, Y: 20, Width: 50, Height: 40},
		},
	}
	if diff := cmp.Diff(want, doc); diff != "" {
		t.Errorf("BuildDocument() mismatch (-want +got):\n%s", diff)
	}
}

func TestBuildDocumentWithoutItems(t *testing.T) {
	doc := BuildDocument(scenarioA(t))
	for i, p := range doc.Placements {
		if p.ID != string(rune('0'+i)) {
			t.Errorf("Placements[%d].ID = %q, want index", i, p.ID)
		}
	}
}

func TestBuildDocumentViewport(t *testing.T) {
	doc := BuildDocument(scenarioA(t), WithViewport(grid.Rect{X: 0, Y: 15, Width: 40, Height: 5}))
	if len(doc.Placements) != 1 || doc.Placements[0].Index != 2 {
		t.Errorf("Placements = %+v, want only index 2", doc.Placements)
	}
	if doc.Viewport == nil {
		t.Error("Viewport should be recorded")
	}
}

func TestRenderJSONRoundTrip(t *testing.T) {
	s := scenarioA(t)
	data, err := RenderJSON(s)
	if err != nil {
		t.Fatalf("RenderJSON() error: %v", err)
	}

	got, doc, err := UnmarshalLayout(data)
	if err != nil {
		t.Fatalf("UnmarshalLayout() error: %v", err)
	}
	if doc.Columns != 2 {
		t.Errorf("doc.Columns = %d, want 2", doc.Columns)
	}
	if diff := cmp.Diff(s.Placements(), got.Placements()); diff != "" {
		t.Errorf("placements mismatch (-want +got):\n%s", diff)
	}
	if got.ContentHeight() != s.ContentHeight() {
		t.Errorf("ContentHeight() = %v, want %v", got.ContentHeight(), s.ContentHeight())
	}
}

func TestUnmarshalLayoutErrors(t *testing.T) {
	clipped, err := RenderJSON(scenarioA(t), WithViewport(grid.Rect{Width: 10, Height: 10}))
	if err != nil {
		t.Fatal(err)
	}

	tampered := BuildDocument(scenarioA(t))
	tampered.Placements[1].X = 12
	bad, _ := json.Marshal(tampered)

	tests := []struct {
		name string
		data []byte
		code merrors.Code
	}{
		{"not json", []byte("{"), merrors.ErrCodeInvalidFormat},
		{"clipped", clipped, merrors.ErrCodeInvalidInput},
		{"geometry mismatch", bad, merrors.ErrCodeInvalidInput},
		{"zero columns", []byte(`{"width":100,"columns":0,"placements":[]}`), merrors.ErrCodeInvalidConfiguration},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, _, err := UnmarshalLayout(tt.data); !merrors.Is(err, tt.code) {
				t.Errorf("UnmarshalLayout() error = %v, want %s", err, tt.code)
			}
		})
	}
}
