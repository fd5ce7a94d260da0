package realtime

import (
	"encoding/json"
	"errors"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// The wire structs mirror the feed contract. Pointer fields distinguish a
// missing or null value from a zero value; the validate tags mark what is
// required. Unknown JSON fields are ignored.

type wireResponse struct {
	Data *wireData `json:"data" validate:"required"`
}

type wireData struct {
	TrafficInfoCategories []*wireTrafficInfoCategory `json:"trafficInfoCategories" validate:"omitempty,dive,required"`
	TrafficInfos          []*wireTrafficInfo         `json:"trafficInfos" validate:"omitempty,dive,required"`
	Monitors              []*wireMonitor             `json:"monitors" validate:"required,dive,required"`
}

type wireTrafficInfoCategory struct {
	ID    *int    `json:"id" validate:"required,gte=0"`
	Name  *string `json:"name" validate:"required"`
	Title *string `json:"title" validate:"required"`
}

type wireTrafficInfo struct {
	RefTrafficInfoCategoryID *int            `json:"refTrafficInfoCategoryId" validate:"required,gte=0"`
	Title                    *string         `json:"title" validate:"required"`
	Description              *string         `json:"description" validate:"required"`
	Time                     *wireTimeWindow `json:"time" validate:"required"`
	RelatedLines             []*string       `json:"relatedLines" validate:"required,dive,required"`
	RelatedStops             []*int          `json:"relatedStops" validate:"required,dive,required,gte=0"`
}

type wireTimeWindow struct {
	Start *string `json:"start" validate:"required"`
	End   *string `json:"end" validate:"required"`
}

type wireMonitor struct {
	LocationStop *wireLocationStop   `json:"locationStop" validate:"required"`
	Lines        []*wireMonitoredLine `json:"lines" validate:"omitempty,dive,required"`
}

type wireLocationStop struct {
	Properties *wireStopProperties `json:"properties" validate:"required"`
}

type wireStopProperties struct {
	Name  *string `json:"name" validate:"required"`
	Title *string `json:"title" validate:"required"`
}

type wireMonitoredLine struct {
	Name              *string         `json:"name" validate:"required"`
	Towards           *string         `json:"towards" validate:"required"`
	Direction         *string         `json:"direction" validate:"required"`
	BarrierFree       *bool           `json:"barrierFree"`
	RealtimeSupported *bool           `json:"realtimeSupported"`
	TrafficJam        *bool           `json:"trafficjam"`
	Type              *string         `json:"type" validate:"required"`
	LineID            *int            `json:"lineId" validate:"omitempty,gte=0"`
	Departures        *wireDepartures `json:"departures" validate:"omitempty"`
}

type wireDepartures struct {
	Departure []*wireDeparture `json:"departure" validate:"omitempty,dive,required"`
}

type wireDeparture struct {
	DepartureTime *wireDepartureTime `json:"departureTime" validate:"required"`
	Vehicle       *wireVehicle       `json:"vehicle" validate:"omitempty"`
}

type wireDepartureTime struct {
	TimePlanned *string `json:"timePlanned" validate:"required"`
	TimeReal    *string `json:"timeReal"`
	Countdown   *int    `json:"countdown" validate:"required,gte=0"`
}

type wireVehicle struct {
	Name              *string `json:"name" validate:"required"`
	Towards           *string `json:"towards" validate:"required"`
	Direction         *string `json:"direction" validate:"required"`
	BarrierFree       *bool   `json:"barrierFree" validate:"required"`
	FoldingRamp       *bool   `json:"foldingRamp"`
	RealtimeSupported *bool   `json:"realtimeSupported" validate:"required"`
	TrafficJam        *bool   `json:"trafficjam" validate:"required"`
	Type              *string `json:"type" validate:"required"`
	LineID            *int    `json:"lineId" validate:"omitempty,gte=0"`
}

var schemaValidator = newSchemaValidator()

func newSchemaValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(jsonName)
	return v
}

// Decode parses a monitor response body and validates it. Invalid JSON is a
// *DecodeError; a payload of the wrong shape is a *SchemaValidationError.
func Decode(body []byte) (*Response, error) {
	var raw any
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, &DecodeError{Err: err}
	}
	return Validate(raw)
}

// Validate checks an already decoded JSON value against the monitor feed
// contract. It returns either a complete *Response or a
// *SchemaValidationError, never a partial result.
func Validate(raw any) (*Response, error) {
	encoded, err := json.Marshal(raw)
	if err != nil {
		return nil, &SchemaValidationError{Issues: []Issue{{Path: "(root)", Expected: "JSON value"}}}
	}
	var generic any
	if err := json.Unmarshal(encoded, &generic); err != nil {
		return nil, &SchemaValidationError{Issues: []Issue{{Path: "(root)", Expected: "JSON value"}}}
	}

	var issues []Issue
	exact := checkShape(generic, reflect.TypeOf(wireResponse{}), "", &issues)
	if len(issues) > 0 {
		return nil, &SchemaValidationError{Issues: issues}
	}

	// exact carries only known keys of the right kinds, so this decode
	// cannot fail on a well-shaped value.
	encoded, err = json.Marshal(exact)
	if err != nil {
		return nil, &SchemaValidationError{Issues: []Issue{{Path: "(root)", Expected: "object"}}}
	}
	var wire wireResponse
	if err := json.Unmarshal(encoded, &wire); err != nil {
		var typeErr *json.UnmarshalTypeError
		if errors.As(err, &typeErr) {
			return nil, &SchemaValidationError{Issues: []Issue{{Path: displayPath(typeErr.Field), Expected: kindName(typeErr.Type)}}}
		}
		return nil, &SchemaValidationError{Issues: []Issue{{Path: "(root)", Expected: "object"}}}
	}

	if err := schemaValidator.Struct(&wire); err != nil {
		var fieldErrs validator.ValidationErrors
		if !errors.As(err, &fieldErrs) {
			return nil, &SchemaValidationError{Issues: []Issue{{Path: "(root)", Expected: "object"}}}
		}
		issues := make([]Issue, 0, len(fieldErrs))
		for _, fe := range fieldErrs {
			issues = append(issues, Issue{Path: trimRootNamespace(fe.Namespace()), Expected: expectation(fe)})
		}
		return nil, &SchemaValidationError{Issues: issues}
	}

	return wire.toResponse(), nil
}

// trimRootNamespace drops the leading struct name validator puts in front of
// every namespace.
func trimRootNamespace(ns string) string {
	if i := strings.IndexByte(ns, '.'); i >= 0 {
		return ns[i+1:]
	}
	return ns
}

func expectation(fe validator.FieldError) string {
	if fe.Tag() == "gte" {
		return "non-negative integer"
	}
	return kindName(fe.Type())
}

func kindName(t reflect.Type) string {
	if t == nil {
		return "value"
	}
	for t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	switch t.Kind() {
	case reflect.String:
		return "string"
	case reflect.Bool:
		return "boolean"
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return "integer"
	case reflect.Float32, reflect.Float64:
		return "number"
	case reflect.Slice, reflect.Array:
		return "array"
	case reflect.Struct, reflect.Map:
		return "object"
	default:
		return t.Kind().String()
	}
}

// Conversion runs only after validation, so every required pointer is set.

func (w *wireResponse) toResponse() *Response {
	d := w.Data
	resp := &Response{Data: Data{Monitors: make([]Monitor, 0, len(d.Monitors))}}

	for _, c := range d.TrafficInfoCategories {
		resp.Data.TrafficInfoCategories = append(resp.Data.TrafficInfoCategories, TrafficInfoCategory{
			ID:    *c.ID,
			Name:  *c.Name,
			Title: *c.Title,
		})
	}
	for _, ti := range d.TrafficInfos {
		resp.Data.TrafficInfos = append(resp.Data.TrafficInfos, ti.toTrafficInfo())
	}
	for _, m := range d.Monitors {
		resp.Data.Monitors = append(resp.Data.Monitors, m.toMonitor())
	}
	return resp
}

func (w *wireTrafficInfo) toTrafficInfo() TrafficInfo {
	ti := TrafficInfo{
		RefTrafficInfoCategoryID: *w.RefTrafficInfoCategoryID,
		Title:                    *w.Title,
		Description:              *w.Description,
		Time:                     TimeWindow{Start: *w.Time.Start, End: *w.Time.End},
		RelatedLines:             make([]string, 0, len(w.RelatedLines)),
		RelatedStops:             make([]int, 0, len(w.RelatedStops)),
	}
	for _, l := range w.RelatedLines {
		ti.RelatedLines = append(ti.RelatedLines, *l)
	}
	for _, s := range w.RelatedStops {
		ti.RelatedStops = append(ti.RelatedStops, *s)
	}
	return ti
}

func (w *wireMonitor) toMonitor() Monitor {
	m := Monitor{
		LocationStop: LocationStop{Properties: StopProperties{
			Name:  *w.LocationStop.Properties.Name,
			Title: *w.LocationStop.Properties.Title,
		}},
	}
	for _, l := range w.Lines {
		m.Lines = append(m.Lines, l.toLine())
	}
	return m
}

func (w *wireMonitoredLine) toLine() MonitoredLine {
	line := MonitoredLine{
		Name:              *w.Name,
		Towards:           *w.Towards,
		Direction:         *w.Direction,
		BarrierFree:       w.BarrierFree,
		RealtimeSupported: w.RealtimeSupported,
		TrafficJam:        w.TrafficJam,
		Type:              *w.Type,
		LineID:            w.LineID,
	}
	if w.Departures != nil {
		line.Departures = &Departures{}
		for _, d := range w.Departures.Departure {
			line.Departures.Departure = append(line.Departures.Departure, d.toDeparture())
		}
	}
	return line
}

func (w *wireDeparture) toDeparture() Departure {
	d := Departure{
		DepartureTime: DepartureTime{
			TimePlanned: *w.DepartureTime.TimePlanned,
			TimeReal:    w.DepartureTime.TimeReal,
			Countdown:   *w.DepartureTime.Countdown,
		},
	}
	if v := w.Vehicle; v != nil {
		d.Vehicle = &Vehicle{
			Name:              *v.Name,
			Towards:           *v.Towards,
			Direction:         *v.Direction,
			BarrierFree:       *v.BarrierFree,
			FoldingRamp:       v.FoldingRamp,
			RealtimeSupported: *v.RealtimeSupported,
			TrafficJam:        *v.TrafficJam,
			Type:              *v.Type,
			LineID:            v.LineID,
		}
	}
	return d
}
