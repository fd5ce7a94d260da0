// Package catalog answers lookups over the static network snapshot: lines,
// stop points and stop groups by id, and stop groups near a location.
package catalog

import (
	"wlmonitor.org/internal/models"
)

// Catalog is immutable after New and safe for concurrent use.
type Catalog struct {
	lines      []models.Line
	stopPoints []models.StopPoint
	stopGroups []models.StopGroup

	linesByID      map[int]int
	stopPointsByID map[int]int
	stopGroupsByID map[int]int

	spatial *spatialIndex
}

// New indexes a dataset. Dangling references are kept and simply fail to
// resolve at lookup time. When ids repeat, the last record wins.
func New(dataset models.Dataset) *Catalog {
	c := &Catalog{
		lines:          append([]models.Line(nil), dataset.Lines...),
		stopPoints:     append([]models.StopPoint(nil), dataset.StopPoints...),
		stopGroups:     append([]models.StopGroup(nil), dataset.StopGroups...),
		linesByID:      make(map[int]int, len(dataset.Lines)),
		stopPointsByID: make(map[int]int, len(dataset.StopPoints)),
		stopGroupsByID: make(map[int]int, len(dataset.StopGroups)),
	}

	for i, line := range c.lines {
		c.linesByID[line.ID] = i
	}
	for i, sp := range c.stopPoints {
		c.stopPointsByID[sp.ID] = i
	}
	for i, sg := range c.stopGroups {
		c.stopGroupsByID[sg.Diva] = i
	}

	c.spatial = newSpatialIndex(c.stopGroups)
	return c
}

func (c *Catalog) Lines() []models.Line {
	return append([]models.Line(nil), c.lines...)
}

func (c *Catalog) LineByID(id int) (models.Line, bool) {
	i, ok := c.linesByID[id]
	if !ok {
		return models.Line{}, false
	}
	return c.lines[i], true
}

func (c *Catalog) StopPoints() []models.StopPoint {
	return append([]models.StopPoint(nil), c.stopPoints...)
}

func (c *Catalog) StopPointByID(id int) (models.StopPoint, bool) {
	i, ok := c.stopPointsByID[id]
	if !ok {
		return models.StopPoint{}, false
	}
	return c.stopPoints[i], true
}

// StopPointsByDiva resolves the stop ids recorded on the group, in the
// group's order. Ids without a stop point are skipped; an unknown group
// yields an empty slice.
func (c *Catalog) StopPointsByDiva(diva int) []models.StopPoint {
	group, ok := c.StopGroupByDiva(diva)
	if !ok {
		return []models.StopPoint{}
	}

	stops := make([]models.StopPoint, 0, len(group.Stops))
	for _, id := range group.Stops {
		if sp, ok := c.StopPointByID(id); ok {
			stops = append(stops, sp)
		}
	}
	return stops
}

func (c *Catalog) StopGroups() []models.StopGroup {
	return append([]models.StopGroup(nil), c.stopGroups...)
}

func (c *Catalog) StopGroupByDiva(diva int) (models.StopGroup, bool) {
	i, ok := c.stopGroupsByID[diva]
	if !ok {
		return models.StopGroup{}, false
	}
	return c.stopGroups[i], true
}

// LinesForStopGroup returns the lines serving any stop point of the group,
// in first-seen order.
func (c *Catalog) LinesForStopGroup(diva int) []models.Line {
	seen := make(map[int]struct{})
	lines := []models.Line{}

	for _, sp := range c.StopPointsByDiva(diva) {
		for _, lineID := range sp.Lines {
			if _, dup := seen[lineID]; dup {
				continue
			}
			seen[lineID] = struct{}{}
			if line, ok := c.LineByID(lineID); ok {
				lines = append(lines, line)
			}
		}
	}
	return lines
}

// StopGroupsNear returns the stop groups within radiusMeters of lat/lon,
// closest first. A limit of zero or less means no limit.
func (c *Catalog) StopGroupsNear(lat, lon, radiusMeters float64, limit int) []models.NearbyStopGroup {
	return c.spatial.near(lat, lon, radiusMeters, limit)
}
