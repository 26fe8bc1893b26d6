// Package profile turns a user-drawn path into an elevation-vs-distance
// profile, refined progressively as batches of samples come back from the
// elevation service.
package profile

import (
	"context"
	"time"

	"github.com/reliefline/server/internal/lib/geo"
)

// Status identifies where a sampling session is in its lifecycle.
type Status int

const (
	StatusIdle Status = iota
	StatusSampling
	StatusRefining
	StatusDone
	StatusCancelled
	StatusFailed
)

func (s Status) String() string {
	switch s {
	case StatusIdle:
		return "idle"
	case StatusSampling:
		return "sampling"
	case StatusRefining:
		return "refining"
	case StatusDone:
		return "done"
	case StatusCancelled:
		return "cancelled"
	case StatusFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// SamplePoint is one coordinate along the path annotated with its along-path
// distance and, once fetched, its elevation. A nil Elevation means the value
// has not been fetched yet or the service had none; consumers may render
// either as a gap.
type SamplePoint struct {
	Coordinate     geo.Point `json:"coordinate"`
	DistanceMeters int       `json:"distance_m"`
	Elevation      *float64  `json:"elevation"`
}

// Series is a profile over the full path, ordered by non-decreasing
// distance from the path start.
type Series []SamplePoint

// Snapshot is the immutable view published to consumers on every state
// change. Err is set only when the session terminated with a failure; the
// Series then holds whatever partial profile was last built.
type Snapshot struct {
	Series          Series  `json:"series"`
	ProgressPercent float64 `json:"progress_percent"`
	Refining        bool    `json:"refining"`
	Err             string  `json:"error,omitempty"`
}

// ElevationSource fetches elevations for a batch of coordinates, preserving
// length and order. Implemented by the elevation client.
type ElevationSource interface {
	FetchElevations(ctx context.Context, coords []geo.Point) ([]*float64, error)
}

// Options configure the progressive sampler.
type Options struct {
	// InitialSampleCount is the size of the first, coarse batch.
	InitialSampleCount int
	// RefinementRounds is the number of density-doubling passes after the
	// initial batch.
	RefinementRounds int
	// InterRoundDelay paces requests between refinement rounds so the
	// remote service's rate limits are respected.
	InterRoundDelay time.Duration
	// SettleDelay is how long the finished profile is left on screen before
	// the progress indicator resets.
	SettleDelay time.Duration
}

// DefaultOptions returns the sampler defaults.
func DefaultOptions() Options {
	return Options{
		InitialSampleCount: 15,
		RefinementRounds:   3,
		InterRoundDelay:    300 * time.Millisecond,
		SettleDelay:        400 * time.Millisecond,
	}
}

// withDefaults fills unset fields from DefaultOptions. RefinementRounds
// cannot be distinguished from an explicit zero, which is a valid setting.
func (o Options) withDefaults() Options {
	defaults := DefaultOptions()
	if o.InitialSampleCount <= 0 {
		o.InitialSampleCount = defaults.InitialSampleCount
	}
	if o.InterRoundDelay < 0 {
		o.InterRoundDelay = defaults.InterRoundDelay
	}
	if o.SettleDelay < 0 {
		o.SettleDelay = defaults.SettleDelay
	}
	return o
}
