package items

import (
	"math"
	"testing"

	merrors "github.com/matzehuels/masonry/pkg/errors"
	"github.com/matzehuels/masonry/pkg/grid"
)

func TestItemHeightAt(t *testing.T) {
	tests := []struct {
		name string
		item Item
		cw   float64
		want float64
	}{
		{"fixed", Item{ID: "a", Height: 42}, 100, 42},
		{"fixed ignores image", Item{ID: "a", Height: 42, ImageWidth: 10, ImageHeight: 10}, 100, 42},
		{"portrait", Item{ID: "a", ImageWidth: 400, ImageHeight: 600}, 200, 300},
		{"landscape", Item{ID: "a", ImageWidth: 800, ImageHeight: 400}, 200, 100},
		{"no size", Item{ID: "a"}, 200, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.item.HeightAt(tt.cw); got != tt.want {
				t.Errorf("HeightAt(%v) = %v, want %v", tt.cw, got, tt.want)
			}
		})
	}
}

func TestManifestValidate(t *testing.T) {
	tests := []struct {
		name    string
		m       Manifest
		wantErr bool
	}{
		{"empty", Manifest{}, false},
		{"fixed", Manifest{Items: []Item{{ID: "a", Height: 1}}}, false},
		{"image", Manifest{Items: []Item{{ID: "a", ImageWidth: 1, ImageHeight: 2}}}, false},
		{"empty id", Manifest{Items: []Item{{Height: 1}}}, true},
		{"id with space", Manifest{Items: []Item{{ID: "a b", Height: 1}}}, true},
		{"duplicate", Manifest{Items: []Item{{ID: "a", Height: 1}, {ID: "a", Height: 2}}}, true},
		{"negative height", Manifest{Items: []Item{{ID: "a", Height: -1}}}, true},
		{"nan image", Manifest{Items: []Item{{ID: "a", ImageWidth: math.NaN(), ImageHeight: 1}}}, true},
		{"missing image height", Manifest{Items: []Item{{ID: "a", ImageWidth: 1}}}, true},
		{"no size", Manifest{Items: []Item{{ID: "a"}}}, true},
		{"negative caption", Manifest{CaptionHeight: -4}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.m.Validate()
			if (err != nil) != tt.wantErr {
				t.Fatalf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !merrors.Is(err, merrors.ErrCodeInvalidManifest) {
				t.Errorf("Validate() code = %s, want INVALID_MANIFEST", merrors.GetCode(err))
			}
		})
	}
}

func TestManifestOracle(t *testing.T) {
	m := &Manifest{
		CaptionHeight: 20,
		Items: []Item{
			{ID: "a", Height: 10},
			{ID: "b", ImageWidth: 100, ImageHeight: 150},
		},
	}

	o := m.Oracle(50)
	if got := o.Height(0); got != 30 {
		t.Errorf("Height(0) = %v, want 30", got)
	}
	if got := o.Height(1); got != 95 {
		t.Errorf("Height(1) = %v, want 95", got)
	}
}

func TestManifestInput(t *testing.T) {
	m := &Manifest{Items: []Item{
		{ID: "a", Height: 10},
		{ID: "b", Height: 20},
		{ID: "c", ImageWidth: 1, ImageHeight: 1},
	}}

	in, err := m.Input(2, 100)
	if err != nil {
		t.Fatalf("Input() error: %v", err)
	}
	s, err := grid.Compute(in)
	if err != nil {
		t.Fatalf("Compute() error: %v", err)
	}

	// c is square at column width 50 and lands under a.
	p, _ := s.Placement(2)
	if want := (grid.Rect{X: 0, Y: 10, Width: 50, Height: 50}); p.Frame != want {
		t.Errorf("Placement(2).Frame = %+v, want %+v", p.Frame, want)
	}

	if _, err := m.Input(0, 100); !merrors.Is(err, merrors.ErrCodeInvalidConfiguration) {
		t.Errorf("Input(0, 100) error = %v, want INVALID_CONFIGURATION", err)
	}
}

func TestManifestIDsAndLabels(t *testing.T) {
	m := &Manifest{Items: []Item{{ID: "a", Label: "Alpha"}, {ID: "b"}}}

	ids := m.IDs()
	if len(ids) != 2 || ids[0] != "a" || ids[1] != "b" {
		t.Errorf("IDs() = %v", ids)
	}
	labels := m.Labels()
	if labels[0] != "Alpha" || labels[1] != "b" {
		t.Errorf("Labels() = %v, want [Alpha b]", labels)
	}
}
