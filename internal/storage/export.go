package storage

import (
	"encoding/json"
	"io"

	"github.com/go-gl/mathgl/mgl32"
)

type ExportData struct {
	RunMetadata
	Times   []float32      `json:"times"`
	Centers [][]mgl32.Vec3 `json:"centers"`
}

// ExportJSON writes the run metadata together with its full trajectory.
func (s *Store) ExportJSON(runID string, w io.Writer) error {
	meta, err := s.Load(runID)
	if err != nil {
		return err
	}
	times, centers, err := s.LoadTrajectory(runID)
	if err != nil {
		return err
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(ExportData{
		RunMetadata: *meta,
		Times:       times,
		Centers:     centers,
	})
}
