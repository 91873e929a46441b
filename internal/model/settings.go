package model

// PackSettings holds the generator and placement parameters used when the
// buffer zone is populated.
type PackSettings struct {
	MinBatch    int     `json:"min_batch"`    // Fewest polygons per batch
	MaxBatch    int     `json:"max_batch"`    // Most polygons per batch
	MinVertices int     `json:"min_vertices"` // Fewest vertices per polygon, at least 3
	MaxVertices int     `json:"max_vertices"` // Most vertices per polygon
	RadiusMin   float64 `json:"radius_min"`   // Smallest vertex distance from the centre
	RadiusMax   float64 `json:"radius_max"`   // Largest vertex distance from the centre
	Margin      float64 `json:"margin"`       // Gap kept to the container edges
	Padding     float64 `json:"padding"`      // Extra clearance between occupancy records
	MaxAttempts int     `json:"max_attempts"` // Samples per item before accepting an overlap
}

// DefaultPackSettings returns the stock generator parameters.
func DefaultPackSettings() PackSettings {
	return PackSettings{
		MinBatch:    5,
		MaxBatch:    20,
		MinVertices: 3,
		MaxVertices: 8,
		RadiusMin:   18,
		RadiusMax:   50,
		Margin:      10,
		Padding:     6,
		MaxAttempts: 200,
	}
}

// Normalize repairs out-of-range values so the packer always terminates
// and never asks the generator for a degenerate polygon.
func (s PackSettings) Normalize() PackSettings {
	d := DefaultPackSettings()
	if s.MinBatch < 1 {
		s.MinBatch = d.MinBatch
	}
	if s.MaxBatch < s.MinBatch {
		s.MaxBatch = s.MinBatch
	}
	if s.MinVertices < 3 {
		s.MinVertices = 3
	}
	if s.MaxVertices < s.MinVertices {
		s.MaxVertices = s.MinVertices
	}
	if s.RadiusMin <= 0 {
		s.RadiusMin = d.RadiusMin
	}
	if s.RadiusMax < s.RadiusMin {
		s.RadiusMax = s.RadiusMin
	}
	if s.Margin < 0 {
		s.Margin = 0
	}
	if s.Padding < 0 {
		s.Padding = 0
	}
	if s.MaxAttempts < 1 {
		s.MaxAttempts = 1
	}
	return s
}
