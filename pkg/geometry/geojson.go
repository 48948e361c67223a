package geometry

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/twpayne/go-geos"

	"github.com/statecraft/precinctgraph/pkg/errors"
)

// feature holds one GeoJSON feature with the geometry kept raw so GEOS can
// construct it directly.
type feature struct {
	Type       string          `json:"type"`
	Geometry   json.RawMessage `json:"geometry"`
	Properties map[string]any  `json:"properties"`
}

// featureCollection holds a GeoJSON FeatureCollection.
type featureCollection struct {
	Type     string    `json:"type"`
	Features []feature `json:"features"`
}

// ReadRegions decodes a GeoJSON FeatureCollection into regions.
// The idAttr property of each feature names the region; it is kept in the
// attribute bag as well, so node attributes round-trip the full property
// set. Properties are sanitized (non-representable values become null).
//
// Structural problems are fatal before any graph work begins: a feature
// without a usable geometry, a missing or empty id, and a duplicate id all
// return an INVALID_INPUT error naming the feature.
func ReadRegions(r io.Reader, idAttr string) ([]Region, error) {
	var fc featureCollection
	if err := json.NewDecoder(r).Decode(&fc); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "decode feature collection")
	}
	if len(fc.Features) == 0 {
		return nil, errors.New(errors.ErrCodeInvalidInput, "feature collection has no features")
	}

	regions := make([]Region, 0, len(fc.Features))
	seen := make(map[string]int, len(fc.Features))

	for i, f := range fc.Features {
		id, err := featureID(f, i, idAttr)
		if err != nil {
			return nil, err
		}
		if prev, dup := seen[id]; dup {
			return nil, errors.New(errors.ErrCodeInvalidInput,
				"duplicate region id %q (features %d and %d)", id, prev, i)
		}
		seen[id] = i

		if len(f.Geometry) == 0 || string(f.Geometry) == "null" {
			return nil, errors.New(errors.ErrCodeInvalidInput, "region %q has no geometry", id)
		}
		geom, err := geos.NewGeomFromGeoJSON(string(f.Geometry))
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidGeometry, err, "region %q", id)
		}

		regions = append(regions, Region{
			ID:    id,
			Geom:  geom,
			Attrs: SanitizeAttrs(f.Properties),
		})
	}

	return regions, nil
}

// ReadRegionsFile opens path and decodes it with ReadRegions.
func ReadRegionsFile(path, idAttr string) ([]Region, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "open %s", path)
		}
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "open %s", path)
	}
	defer f.Close()
	return ReadRegions(f, idAttr)
}

// featureID extracts the id property as a string. Numeric ids are
// formatted without an exponent so they stay stable across runs.
func featureID(f feature, index int, idAttr string) (string, error) {
	raw, ok := f.Properties[idAttr]
	if !ok {
		return "", errors.New(errors.ErrCodeInvalidInput,
			"feature %d has no %q property", index, idAttr)
	}
	var id string
	switch v := raw.(type) {
	case string:
		id = v
	case float64:
		id = trimFloat(v)
	default:
		id = fmt.Sprintf("%v", v)
	}
	if id == "" {
		return "", errors.New(errors.ErrCodeInvalidInput,
			"feature %d has an empty %q property", index, idAttr)
	}
	return id, nil
}

func trimFloat(v float64) string {
	if v == float64(int64(v)) {
		return fmt.Sprintf("%d", int64(v))
	}
	return fmt.Sprintf("%g", v)
}
