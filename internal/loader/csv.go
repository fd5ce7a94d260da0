// Package loader builds the static network dataset from the published CSV
// files and reads and writes the JSON snapshot consumed by the catalog.
package loader

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"wlmonitor.org/internal/logging"
	"wlmonitor.org/internal/models"
)

const (
	LinesFile      = "lines.csv"
	RoutesFile     = "routes.csv"
	StopPointsFile = "stopPoints.csv"
	StopGroupsFile = "stopGroups.csv"
)

const utf8BOM = "\ufeff"

// record is one CSV row keyed by header name, with its 1-based line number.
type record struct {
	file   string
	row    int
	values map[string]string
}

func (r record) str(field string) string {
	return r.values[field]
}

func (r record) intField(field string) (int, error) {
	v := r.values[field]
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, &ParseError{File: r.file, Row: r.row, Field: field, Value: v, Kind: "int"}
	}
	return n, nil
}

func (r record) floatField(field string) (float64, error) {
	v := r.values[field]
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, &ParseError{File: r.file, Row: r.row, Field: field, Value: v, Kind: "float"}
	}
	return f, nil
}

// boolField accepts only "1" and "0".
func (r record) boolField(field string) (bool, error) {
	switch v := r.values[field]; v {
	case "1":
		return true, nil
	case "0":
		return false, nil
	default:
		return false, &ParseError{File: r.file, Row: r.row, Field: field, Value: v, Kind: "boolean"}
	}
}

// readRecords parses a semicolon separated file with a header row. Rows with
// an empty value, or whose field count does not match the header, are dropped.
func readRecords(r io.Reader, name string, columns ...string) ([]record, error) {
	reader := csv.NewReader(r)
	reader.Comma = ';'
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("%s: missing header row", name)
		}
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	if len(header) > 0 {
		header[0] = strings.TrimPrefix(header[0], utf8BOM)
	}
	for i := range header {
		header[i] = strings.TrimSpace(header[i])
	}

	present := make(map[string]bool, len(header))
	for _, h := range header {
		present[h] = true
	}
	for _, c := range columns {
		if !present[c] {
			return nil, fmt.Errorf("%s: missing column %q", name, c)
		}
	}

	var records []record
	row := 1
	for {
		fields, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		row++
		if err != nil {
			return nil, fmt.Errorf("%s row %d: %w", name, row, err)
		}
		if len(fields) != len(header) {
			continue
		}

		values := make(map[string]string, len(header))
		empty := false
		for i, h := range header {
			v := strings.TrimSpace(fields[i])
			if v == "" {
				empty = true
				break
			}
			values[h] = v
		}
		if empty {
			continue
		}
		records = append(records, record{file: name, row: row, values: values})
	}
	return records, nil
}

func readFile(dir, name string, columns ...string) ([]record, error) {
	f, err := os.Open(filepath.Join(dir, name))
	if err != nil {
		return nil, err
	}
	defer logging.SafeCloseWithLogging(f, slog.Default(), "close "+name)

	return readRecords(f, name, columns...)
}

// LoadCSVDir reads lines.csv, routes.csv, stopPoints.csv and stopGroups.csv
// from dir. The first malformed number or boolean aborts the load with a
// *ParseError.
func LoadCSVDir(dir string) (models.Dataset, error) {
	lines, err := loadLines(dir)
	if err != nil {
		return models.Dataset{}, err
	}

	stopLines, err := loadRoutes(dir)
	if err != nil {
		return models.Dataset{}, err
	}

	stopPoints, err := loadStopPoints(dir, stopLines)
	if err != nil {
		return models.Dataset{}, err
	}

	stopGroups, err := loadStopGroups(dir, stopPoints)
	if err != nil {
		return models.Dataset{}, err
	}

	return models.Dataset{
		Lines:      lines,
		StopPoints: stopPoints,
		StopGroups: stopGroups,
	}, nil
}

func loadLines(dir string) ([]models.Line, error) {
	records, err := readFile(dir, LinesFile, "LineID", "LineText", "Realtime", "MeansOfTransport")
	if err != nil {
		return nil, err
	}

	lines := make([]models.Line, 0, len(records))
	for _, rec := range records {
		id, err := rec.intField("LineID")
		if err != nil {
			return nil, err
		}
		realtime, err := rec.boolField("Realtime")
		if err != nil {
			return nil, err
		}
		lines = append(lines, models.NewLine(id, rec.str("LineText"), realtime, models.VehicleKind(rec.str("MeansOfTransport"))))
	}
	return lines, nil
}

// loadRoutes maps stop id to the ids of lines serving it, in first-seen order.
func loadRoutes(dir string) (map[int][]int, error) {
	records, err := readFile(dir, RoutesFile, "LineID", "StopID")
	if err != nil {
		return nil, err
	}

	stopLines := make(map[int][]int)
	seen := make(map[[2]int]struct{})
	for _, rec := range records {
		lineID, err := rec.intField("LineID")
		if err != nil {
			return nil, err
		}
		stopID, err := rec.intField("StopID")
		if err != nil {
			return nil, err
		}

		key := [2]int{stopID, lineID}
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		stopLines[stopID] = append(stopLines[stopID], lineID)
	}
	return stopLines, nil
}

func loadStopPoints(dir string, stopLines map[int][]int) ([]models.StopPoint, error) {
	records, err := readFile(dir, StopPointsFile,
		"StopID", "DIVA", "StopText", "Municipality", "MunicipalityID", "Longitude", "Latitude")
	if err != nil {
		return nil, err
	}

	stopPoints := make([]models.StopPoint, 0, len(records))
	for _, rec := range records {
		sp := models.StopPoint{
			Name:         rec.str("StopText"),
			Municipality: rec.str("Municipality"),
		}
		if sp.ID, err = rec.intField("StopID"); err != nil {
			return nil, err
		}
		if sp.Diva, err = rec.intField("DIVA"); err != nil {
			return nil, err
		}
		if sp.MunicipalityID, err = rec.intField("MunicipalityID"); err != nil {
			return nil, err
		}
		if sp.Longitude, err = rec.floatField("Longitude"); err != nil {
			return nil, err
		}
		if sp.Latitude, err = rec.floatField("Latitude"); err != nil {
			return nil, err
		}

		sp.Lines = append([]int{}, stopLines[sp.ID]...)
		stopPoints = append(stopPoints, sp)
	}
	return stopPoints, nil
}

func loadStopGroups(dir string, stopPoints []models.StopPoint) ([]models.StopGroup, error) {
	records, err := readFile(dir, StopGroupsFile,
		"DIVA", "PlatformText", "Municipality", "MunicipalityID", "Longitude", "Latitude")
	if err != nil {
		return nil, err
	}

	stopsByDiva := make(map[int][]int)
	seen := make(map[int]struct{})
	for _, sp := range stopPoints {
		if _, dup := seen[sp.ID]; dup {
			continue
		}
		seen[sp.ID] = struct{}{}
		stopsByDiva[sp.Diva] = append(stopsByDiva[sp.Diva], sp.ID)
	}

	stopGroups := make([]models.StopGroup, 0, len(records))
	for _, rec := range records {
		sg := models.StopGroup{
			Name:         rec.str("PlatformText"),
			Municipality: rec.str("Municipality"),
		}
		if sg.Diva, err = rec.intField("DIVA"); err != nil {
			return nil, err
		}
		if sg.MunicipalityID, err = rec.intField("MunicipalityID"); err != nil {
			return nil, err
		}
		if sg.Longitude, err = rec.floatField("Longitude"); err != nil {
			return nil, err
		}
		if sg.Latitude, err = rec.floatField("Latitude"); err != nil {
			return nil, err
		}

		sg.Stops = append([]int{}, stopsByDiva[sg.Diva]...)
		stopGroups = append(stopGroups, sg)
	}
	return stopGroups, nil
}
