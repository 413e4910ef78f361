package model

import (
	"github.com/twpayne/go-geom"
)

// BoundsOf computes the bounding box of all located records, for fitting the
// map viewport. Returns nil when no record has coordinates.
func BoundsOf(records []BusinessRecord) *geom.Bounds {
	var b *geom.Bounds
	for i := range records {
		c := records[i].Coords
		if c == nil {
			continue
		}
		if b == nil {
			b = geom.NewBounds(geom.XY)
		}
		b.Extend(geom.NewPointFlat(geom.XY, []float64{c.Longitude, c.Latitude}))
	}
	return b
}
