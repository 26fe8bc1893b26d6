package profile

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/reliefline/server/internal/lib/geo"
)

// ErrInvalidPath is returned by Start for paths with fewer than two vertices.
var ErrInvalidPath = errors.New("path must have at least two vertices")

// Sampler orchestrates progressive elevation sampling: an initial coarse
// batch followed by refinement rounds that double sample density by fetching
// only the new midpoints. At most one session is active at a time; Start
// supersedes any session still in flight.
type Sampler struct {
	source  ElevationSource
	opts    Options
	publish func(Snapshot)

	mu      sync.Mutex
	current *session
}

// session is the mutable state of one sampling run, owned exclusively by the
// goroutine Start launches. Everything observable leaves through publish.
type session struct {
	ctx    context.Context
	cancel context.CancelFunc
	series Series
	round  int
	status Status
}

// NewSampler creates a Sampler. publish is invoked from the sampling
// goroutine for every published snapshot and must not be nil.
func NewSampler(source ElevationSource, opts Options, publish func(Snapshot)) *Sampler {
	return &Sampler{
		source:  source,
		opts:    opts.withDefaults(),
		publish: publish,
	}
}

// Start begins sampling a new path, cancelling any session already in
// flight. A superseded session publishes nothing further, even if its
// network call is still resolving.
func (s *Sampler) Start(vertices []geo.Point) error {
	if len(vertices) < 2 {
		return ErrInvalidPath
	}

	path := make([]geo.Point, len(vertices))
	copy(path, vertices)

	ctx, cancel := context.WithCancel(context.Background())
	sess := &session{ctx: ctx, cancel: cancel, status: StatusSampling}

	s.mu.Lock()
	if s.current != nil {
		s.current.status = StatusCancelled
		s.current.cancel()
	}
	s.current = sess
	s.mu.Unlock()

	go s.run(sess, path)
	return nil
}

// Reset cancels the active session, if any, and publishes the cleared state.
func (s *Sampler) Reset() {
	s.mu.Lock()
	if s.current != nil {
		s.current.status = StatusCancelled
		s.current.cancel()
		s.current = nil
	}
	s.mu.Unlock()

	s.publish(Snapshot{Series: Series{}})
}

// Status reports the lifecycle state of the current session, or StatusIdle
// when none exists.
func (s *Sampler) Status() Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.current == nil {
		return StatusIdle
	}
	return s.current.status
}

func (s *Sampler) run(sess *session, path []geo.Point) {
	err := s.sample(sess, path)
	if err == nil {
		return
	}
	if sess.ctx.Err() != nil || errors.Is(err, context.Canceled) {
		// Superseded or reset; stop silently.
		return
	}
	s.setStatus(sess, StatusFailed)
	// Surface the failure but keep the last good profile visible: no
	// rollback, no retry.
	s.emit(sess, Snapshot{Series: sess.series, Err: err.Error()})
}

// sample runs the full pipeline for one session. Cancellation is checked
// after every suspension point (fetches and pacing delays), before any state
// mutation or publication.
func (s *Sampler) sample(sess *session, path []geo.Point) error {
	coords := geo.InterpolatePath(path, s.opts.InitialSampleCount)
	distances := geo.CumulativeDistances(coords)

	elevations, err := s.source.FetchElevations(sess.ctx, coords)
	if err != nil {
		return err
	}
	if err := sess.ctx.Err(); err != nil {
		return err
	}

	series := make(Series, len(coords))
	for i := range coords {
		series[i] = SamplePoint{
			Coordinate:     coords[i],
			DistanceMeters: distances[i],
			Elevation:      elevations[i],
		}
	}
	sess.series = series

	rounds := s.opts.RefinementRounds
	if !s.emit(sess, Snapshot{Series: series, ProgressPercent: 50, Refining: rounds > 0}) {
		return context.Canceled
	}

	for round := 1; round <= rounds; round++ {
		s.setStatus(sess, StatusRefining)
		sess.round = round

		refined, inserted := refine(sess.series)

		newCoords := make([]geo.Point, len(inserted))
		for i, idx := range inserted {
			newCoords[i] = refined[idx].Coordinate
		}

		elevations, err := s.source.FetchElevations(sess.ctx, newCoords)
		if err != nil {
			return err
		}
		if err := sess.ctx.Err(); err != nil {
			return err
		}

		for i, idx := range inserted {
			refined[idx].Elevation = elevations[i]
		}
		sess.series = refined

		progress := 50 + float64(round)/float64(rounds)*50
		if !s.emit(sess, Snapshot{Series: refined, ProgressPercent: progress, Refining: round < rounds}) {
			return context.Canceled
		}

		// Pacing pause between rounds; skipped after the last one.
		if round < rounds {
			if err := sleep(sess.ctx, s.opts.InterRoundDelay); err != nil {
				return err
			}
		}
	}

	s.setStatus(sess, StatusDone)

	// Let the finished profile settle on screen, then clear the indicator.
	if err := sleep(sess.ctx, s.opts.SettleDelay); err != nil {
		return err
	}
	s.emit(sess, Snapshot{Series: sess.series})
	return nil
}

// emit publishes snap on behalf of sess unless the session has been
// superseded or cancelled since the last check.
func (s *Sampler) emit(sess *session, snap Snapshot) bool {
	s.mu.Lock()
	ok := s.current == sess && sess.ctx.Err() == nil
	s.mu.Unlock()
	if !ok {
		return false
	}
	s.publish(snap)
	return true
}

func (s *Sampler) setStatus(sess *session, status Status) {
	s.mu.Lock()
	if s.current == sess {
		sess.status = status
	}
	s.mu.Unlock()
}

// refine doubles the density of series: between every adjacent pair it
// inserts one SamplePoint at the geometric midpoint of their coordinates and
// the arithmetic midpoint of their rounded distances, elevation unset.
// Existing samples carry over unchanged and are never re-fetched. The
// returned indices locate the inserted points, in left-to-right order.
func refine(series Series) (Series, []int) {
	if len(series) < 2 {
		return series, nil
	}

	refined := make(Series, 0, 2*len(series)-1)
	inserted := make([]int, 0, len(series)-1)

	for i, sp := range series {
		refined = append(refined, sp)
		if i == len(series)-1 {
			break
		}
		next := series[i+1]
		inserted = append(inserted, len(refined))
		refined = append(refined, SamplePoint{
			Coordinate:     geo.Midpoint(sp.Coordinate, next.Coordinate),
			DistanceMeters: (sp.DistanceMeters + next.DistanceMeters) / 2,
		})
	}
	return refined, inserted
}

// sleep blocks for d or until ctx is cancelled, whichever comes first.
func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
