package models

// VehicleKind is the means of transport of a line, as published in the
// MeansOfTransport column of the static dataset.
type VehicleKind string

const (
	VehicleMetro    VehicleKind = "ptMetro"
	VehicleTram     VehicleKind = "ptTram"
	VehicleTramWLB  VehicleKind = "ptTramWLB"
	VehicleRufBus   VehicleKind = "ptRufBus"
	VehicleBusCity  VehicleKind = "ptBusCity"
	VehicleBusNight VehicleKind = "ptBusNight"
	VehicleTrainS   VehicleKind = "ptTrainS"
)

var knownVehicleKinds = map[VehicleKind]struct{}{
	VehicleMetro:    {},
	VehicleTram:     {},
	VehicleTramWLB:  {},
	VehicleRufBus:   {},
	VehicleBusCity:  {},
	VehicleBusNight: {},
	VehicleTrainS:   {},
}

// Known reports whether k is one of the published vehicle kinds.
// Unknown kinds are still carried through the dataset unchanged.
func (k VehicleKind) Known() bool {
	_, ok := knownVehicleKinds[k]
	return ok
}

// Line is a transit line, e.g. tram line "1" with id 101.
type Line struct {
	ID       int         `json:"id"`
	Name     string      `json:"name"`
	Realtime bool        `json:"realtime"`
	Vehicle  VehicleKind `json:"vehicle"`
}

func NewLine(id int, name string, realtime bool, vehicle VehicleKind) Line {
	return Line{
		ID:       id,
		Name:     name,
		Realtime: realtime,
		Vehicle:  vehicle,
	}
}
