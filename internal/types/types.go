// README: Shared identifier and geographic value types.
package types

// ID is an opaque entity identifier.
type ID string

// GeoPoint is an immutable coordinate pair in decimal degrees.
type GeoPoint struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}
