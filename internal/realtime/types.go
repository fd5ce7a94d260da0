// Package realtime polls the Wiener Linien monitor feed for a set of watched
// stop groups, validates each response and publishes it to subscribers.
package realtime

// Response is a validated monitor feed snapshot. It is never mutated after
// it has been published to subscribers.
type Response struct {
	Data Data `json:"data"`
}

type Data struct {
	TrafficInfoCategories []TrafficInfoCategory `json:"trafficInfoCategories,omitempty"`
	TrafficInfos          []TrafficInfo         `json:"trafficInfos,omitempty"`
	Monitors              []Monitor             `json:"monitors"`
}

type TrafficInfoCategory struct {
	ID    int    `json:"id"`
	Name  string `json:"name"`
	Title string `json:"title"`
}

// TrafficInfo is a disruption or advisory, e.g. an elevator outage.
type TrafficInfo struct {
	RefTrafficInfoCategoryID int        `json:"refTrafficInfoCategoryId"`
	Title                    string     `json:"title"`
	Description              string     `json:"description"`
	Time                     TimeWindow `json:"time"`
	RelatedLines             []string   `json:"relatedLines"`
	RelatedStops             []int      `json:"relatedStops"`
}

type TimeWindow struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

// Monitor holds the live departures of one stop. LocationStop.Properties.Name
// carries the DIVA as a string.
type Monitor struct {
	LocationStop LocationStop    `json:"locationStop"`
	Lines        []MonitoredLine `json:"lines,omitempty"`
}

type LocationStop struct {
	Properties StopProperties `json:"properties"`
}

type StopProperties struct {
	Name  string `json:"name"`
	Title string `json:"title"`
}

// MonitoredLine describes a line at a monitored stop. Direction is "H" or "R".
type MonitoredLine struct {
	Name              string      `json:"name"`
	Towards           string      `json:"towards"`
	Direction         string      `json:"direction"`
	BarrierFree       *bool       `json:"barrierFree,omitempty"`
	RealtimeSupported *bool       `json:"realtimeSupported,omitempty"`
	TrafficJam        *bool       `json:"trafficjam,omitempty"`
	Type              string      `json:"type"`
	LineID            *int        `json:"lineId,omitempty"`
	Departures        *Departures `json:"departures,omitempty"`
}

type Departures struct {
	Departure []Departure `json:"departure,omitempty"`
}

type Departure struct {
	DepartureTime DepartureTime `json:"departureTime"`
	Vehicle       *Vehicle      `json:"vehicle,omitempty"`
}

// DepartureTime keeps the upstream timestamps as opaque strings. Countdown
// is in minutes.
type DepartureTime struct {
	TimePlanned string  `json:"timePlanned"`
	TimeReal    *string `json:"timeReal,omitempty"`
	Countdown   int     `json:"countdown"`
}

// Vehicle overrides line details for a single departure, e.g. a short
// working that terminates early.
type Vehicle struct {
	Name              string `json:"name"`
	Towards           string `json:"towards"`
	Direction         string `json:"direction"`
	BarrierFree       bool   `json:"barrierFree"`
	FoldingRamp       *bool  `json:"foldingRamp,omitempty"`
	RealtimeSupported bool   `json:"realtimeSupported"`
	TrafficJam        bool   `json:"trafficjam"`
	Type              string `json:"type"`
	LineID            *int   `json:"lineId,omitempty"`
}
