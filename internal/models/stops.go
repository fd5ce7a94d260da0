package models

// StopPoint is a single physical platform. Diva is the area code of the
// stop group it belongs to; Lines holds the ids of lines stopping here.
type StopPoint struct {
	ID             int     `json:"id"`
	Diva           int     `json:"diva"`
	Name           string  `json:"name"`
	Municipality   string  `json:"municipality"`
	MunicipalityID int     `json:"municipalityId"`
	Longitude      float64 `json:"longitude"`
	Latitude       float64 `json:"latitude"`
	Lines          []int   `json:"lines"`
}

// StopGroup aggregates all stop points sharing a DIVA.
type StopGroup struct {
	Diva           int     `json:"diva"`
	Name           string  `json:"name"`
	Municipality   string  `json:"municipality"`
	MunicipalityID int     `json:"municipalityId"`
	Longitude      float64 `json:"longitude"`
	Latitude       float64 `json:"latitude"`
	Stops          []int   `json:"stops"`
}

// NearbyStopGroup is a stop group together with its distance in meters and
// compass direction from a query location.
type NearbyStopGroup struct {
	StopGroup
	Distance  float64 `json:"distance"`
	Direction string  `json:"direction"`
}
