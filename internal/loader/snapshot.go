package loader

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"

	"wlmonitor.org/internal/logging"
	"wlmonitor.org/internal/models"
)

// ReadSnapshot decodes a dataset previously written by WriteSnapshot.
func ReadSnapshot(path string) (models.Dataset, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return models.Dataset{}, fmt.Errorf("read snapshot: %w", err)
	}

	var dataset models.Dataset
	if err := json.Unmarshal(data, &dataset); err != nil {
		return models.Dataset{}, fmt.Errorf("decode snapshot %s: %w", path, err)
	}
	return dataset, nil
}

// WriteSnapshot writes the dataset as indented JSON, replacing path.
func WriteSnapshot(path string, dataset models.Dataset) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create snapshot: %w", err)
	}
	defer logging.HandleDeferredError(&err, f.Close, slog.Default(), "close snapshot")

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	if err := enc.Encode(dataset); err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}
	return nil
}
