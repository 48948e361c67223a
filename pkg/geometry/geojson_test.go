package geometry

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/statecraft/precinctgraph/pkg/errors"
)

const squareFeature = `{
  "type": "Feature",
  "geometry": {"type": "Polygon", "coordinates": [[[0,0],[1000,0],[1000,1000],[0,1000],[0,0]]]},
  "properties": {"GEOID": "%s", "pop": 1200}
}`

func collection(features ...string) string {
	return `{"type":"FeatureCollection","features":[` + strings.Join(features, ",") + `]}`
}

func namedSquare(id string) string {
	return strings.Replace(squareFeature, "%s", id, 1)
}

func TestReadRegions(t *testing.T) {
	input := collection(namedSquare("A"), namedSquare("B"))

	regions, err := ReadRegions(strings.NewReader(input), "GEOID")
	if err != nil {
		t.Fatalf("ReadRegions: %v", err)
	}
	if len(regions) != 2 {
		t.Fatalf("regions = %d, want 2", len(regions))
	}
	if regions[0].ID != "A" || regions[1].ID != "B" {
		t.Errorf("ids = %q, %q; want A, B", regions[0].ID, regions[1].ID)
	}
	if regions[0].Geom == nil || regions[0].Geom.IsEmpty() {
		t.Error("region A has no geometry")
	}
	if v, _ := regions[0].Attrs["pop"].Float(); v != 1200 {
		t.Errorf("pop attribute = %v, want 1200", v)
	}
	if s, _ := regions[0].Attrs["GEOID"].Str(); s != "A" {
		t.Errorf("id attribute not preserved in bag: %q", s)
	}
}

func TestReadRegionsErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
		code  errors.Code
	}{
		{
			name:  "Empty",
			input: `{"type":"FeatureCollection","features":[]}`,
			code:  errors.ErrCodeInvalidInput,
		},
		{
			name:  "MissingID",
			input: collection(`{"type":"Feature","geometry":{"type":"Polygon","coordinates":[[[0,0],[1,0],[1,1],[0,0]]]},"properties":{}}`),
			code:  errors.ErrCodeInvalidInput,
		},
		{
			name:  "DuplicateID",
			input: collection(namedSquare("A"), namedSquare("A")),
			code:  errors.ErrCodeInvalidInput,
		},
		{
			name:  "NullGeometry",
			input: collection(`{"type":"Feature","geometry":null,"properties":{"GEOID":"A"}}`),
			code:  errors.ErrCodeInvalidInput,
		},
		{
			name:  "NotJSON",
			input: "not geojson",
			code:  errors.ErrCodeInvalidInput,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ReadRegions(strings.NewReader(tt.input), "GEOID")
			if err == nil {
				t.Fatal("ReadRegions succeeded, want error")
			}
			if !errors.Is(err, tt.code) {
				t.Errorf("error code = %q, want %q (%v)", errors.GetCode(err), tt.code, err)
			}
		})
	}
}

func TestReadRegionsFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "regions.geojson")
	if err := os.WriteFile(path, []byte(collection(namedSquare("A"))), 0644); err != nil {
		t.Fatalf("write input: %v", err)
	}

	regions, err := ReadRegionsFile(path, "GEOID")
	if err != nil {
		t.Fatalf("ReadRegionsFile: %v", err)
	}
	if len(regions) != 1 || regions[0].ID != "A" {
		t.Errorf("regions = %+v", regions)
	}

	_, err = ReadRegionsFile(filepath.Join(t.TempDir(), "missing.geojson"), "GEOID")
	if !errors.Is(err, errors.ErrCodeFileNotFound) {
		t.Errorf("error code = %q, want FILE_NOT_FOUND", errors.GetCode(err))
	}
}

func TestNumericID(t *testing.T) {
	input := collection(`{"type":"Feature","geometry":{"type":"Polygon","coordinates":[[[0,0],[1,0],[1,1],[0,0]]]},"properties":{"GEOID": 1067}}`)

	regions, err := ReadRegions(strings.NewReader(input), "GEOID")
	if err != nil {
		t.Fatalf("ReadRegions: %v", err)
	}
	if regions[0].ID != "1067" {
		t.Errorf("numeric id = %q, want %q", regions[0].ID, "1067")
	}
}

func TestRepresentativePoint(t *testing.T) {
	regions, err := ReadRegions(strings.NewReader(collection(namedSquare("A"))), "GEOID")
	if err != nil {
		t.Fatalf("ReadRegions: %v", err)
	}

	pt, err := regions[0].RepresentativePoint()
	if err != nil {
		t.Fatalf("RepresentativePoint: %v", err)
	}
	// Point-on-surface must be interior to the 1000x1000 square.
	if pt.X <= 0 || pt.X >= 1000 || pt.Y <= 0 || pt.Y >= 1000 {
		t.Errorf("representative point (%v, %v) outside square", pt.X, pt.Y)
	}
}

func TestRepresentativePointDegenerate(t *testing.T) {
	r := Region{ID: "empty"}
	_, err := r.RepresentativePoint()
	if !errors.Is(err, errors.ErrCodeDegenerateGeometry) {
		t.Errorf("error code = %q, want DEGENERATE_GEOMETRY", errors.GetCode(err))
	}
	if err != nil && !strings.Contains(err.Error(), "empty") {
		t.Errorf("error does not name the region: %v", err)
	}
}
