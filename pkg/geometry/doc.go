// Package geometry defines the region input model for adjacency graph builds.
//
// A [Region] is one precinct: a unique string id, a polygon or multipolygon
// geometry in a projected linear-unit CRS, and an open-ended attribute bag.
// Regions are immutable once loaded; the only normalization applied is
// attribute sanitation (NaN, infinities, and untyped nils become the null
// [Value]) so every attribute survives JSON serialization.
//
// # Input
//
// [ReadRegions] decodes a GeoJSON FeatureCollection. Feature properties
// become node attributes verbatim; one configured property names the region
// id. Geometries are constructed through GEOS and are assumed valid and
// already projected - validity repair and reprojection happen upstream.
//
// # Values
//
// [Value] is a tagged union over the four interchange-representable scalar
// types: number, string, boolean, and null. [FromAny] converts arbitrary
// decoded JSON values and normalizes anything non-representable to null.
package geometry
