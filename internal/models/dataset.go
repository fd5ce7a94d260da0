package models

// Dataset is the static snapshot consumed by the catalog, as stored in the
// generated JSON file.
type Dataset struct {
	Lines      []Line      `json:"lines"`
	StopPoints []StopPoint `json:"stopPoints"`
	StopGroups []StopGroup `json:"stopGroups"`
}
