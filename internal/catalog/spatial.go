package catalog

import (
	"sort"

	"github.com/dhconnelly/rtreego"

	"wlmonitor.org/internal/models"
	"wlmonitor.org/internal/utils"
)

// Points are indexed as (latitude, longitude) with a tiny extent, since
// rtreego rejects zero-length rectangles.
const pointTolerance = 1e-7

type indexedGroup struct {
	group    models.StopGroup
	envelope rtreego.Rect
}

func (ig *indexedGroup) Bounds() rtreego.Rect {
	return ig.envelope
}

type spatialIndex struct {
	tree *rtreego.Rtree
}

func newSpatialIndex(groups []models.StopGroup) *spatialIndex {
	tree := rtreego.NewTree(2, 25, 50)
	for _, g := range groups {
		pt := rtreego.Point{g.Latitude, g.Longitude}
		tree.Insert(&indexedGroup{group: g, envelope: pt.ToRect(pointTolerance)})
	}
	return &spatialIndex{tree: tree}
}

func (s *spatialIndex) near(lat, lon, radiusMeters float64, limit int) []models.NearbyStopGroup {
	results := []models.NearbyStopGroup{}
	if radiusMeters <= 0 || s.tree.Size() == 0 {
		return results
	}

	latSpan, lonSpan := utils.MetersToDegrees(lat, radiusMeters)
	box, err := rtreego.NewRectFromPoints(
		rtreego.Point{lat - latSpan, lon - lonSpan},
		rtreego.Point{lat + latSpan, lon + lonSpan},
	)
	if err != nil {
		return results
	}

	for _, item := range s.tree.SearchIntersect(box) {
		ig := item.(*indexedGroup)
		d := utils.Haversine(lat, lon, ig.group.Latitude, ig.group.Longitude)
		if d > radiusMeters {
			continue
		}
		results = append(results, models.NearbyStopGroup{
			StopGroup: ig.group,
			Distance:  d,
			Direction: utils.CompassDirection(lat, lon, ig.group.Latitude, ig.group.Longitude),
		})
	}

	sort.SliceStable(results, func(i, j int) bool {
		if results[i].Distance == results[j].Distance {
			return results[i].Diva < results[j].Diva
		}
		return results[i].Distance < results[j].Distance
	})

	if limit > 0 && len(results) > limit {
		results = results[:limit]
	}
	return results
}
