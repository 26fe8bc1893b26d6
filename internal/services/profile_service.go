package services

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/reliefline/server/internal/lib/geo"
	"github.com/reliefline/server/internal/lib/profile"
	"github.com/reliefline/server/internal/metrics"
)

// subscriberBuffer is the per-subscriber channel depth. A subscriber that
// falls this far behind starts losing intermediate snapshots; it always
// catches up on the next one.
const subscriberBuffer = 8

// ProfileService owns the elevation profile for the currently drawn path.
// It runs the progressive sampler, retains the latest snapshot for poll-style
// consumers, and fans snapshots out to push subscribers.
type ProfileService struct {
	sampler *profile.Sampler

	mu     sync.RWMutex
	latest profile.Snapshot
	subs   map[chan profile.Snapshot]struct{}
}

// NewProfileService creates a ProfileService sampling from source.
func NewProfileService(source profile.ElevationSource, opts profile.Options) *ProfileService {
	svc := &ProfileService{
		latest: profile.Snapshot{Series: profile.Series{}},
		subs:   make(map[chan profile.Snapshot]struct{}),
	}
	svc.sampler = profile.NewSampler(&instrumentedSource{source: source}, opts, svc.publish)
	return svc
}

// StartProfile begins sampling a new path, superseding any profile in flight.
func (s *ProfileService) StartProfile(vertices []geo.Point) error {
	if err := s.sampler.Start(vertices); err != nil {
		return err
	}
	metrics.SamplingSessionsStarted.Inc()
	slog.Info("profile sampling started", "vertices", len(vertices))
	return nil
}

// Reset cancels any sampling in flight and clears the profile.
func (s *ProfileService) Reset() {
	s.sampler.Reset()
	slog.Info("profile reset")
}

// Latest returns the most recently published snapshot. Before any sampling
// it is the empty profile.
func (s *ProfileService) Latest() profile.Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.latest
}

// Status reports the sampler's lifecycle state.
func (s *ProfileService) Status() profile.Status {
	return s.sampler.Status()
}

// Subscribe registers for snapshot pushes. The returned cancel func must be
// called when the subscriber goes away; the channel is closed by it. Slow
// subscribers drop intermediate snapshots rather than stalling the sampler.
func (s *ProfileService) Subscribe() (<-chan profile.Snapshot, func()) {
	ch := make(chan profile.Snapshot, subscriberBuffer)

	s.mu.Lock()
	s.subs[ch] = struct{}{}
	s.mu.Unlock()

	cancel := func() {
		s.mu.Lock()
		if _, ok := s.subs[ch]; ok {
			delete(s.subs, ch)
			close(ch)
		}
		s.mu.Unlock()
	}
	return ch, cancel
}

// publish is the sampler's sink: record the snapshot and fan it out.
func (s *ProfileService) publish(snap profile.Snapshot) {
	metrics.SnapshotsPublished.Inc()
	if snap.Err != "" {
		metrics.SamplingSessionsFailed.Inc()
		slog.Warn("profile sampling failed", "error", snap.Err, "samples", len(snap.Series))
	}

	s.mu.Lock()
	s.latest = snap
	for ch := range s.subs {
		select {
		case ch <- snap:
		default:
			// Subscriber is behind; skip this snapshot for it.
		}
	}
	s.mu.Unlock()
}

// instrumentedSource counts and times elevation batches on their way to the
// underlying client.
type instrumentedSource struct {
	source profile.ElevationSource
}

func (i *instrumentedSource) FetchElevations(ctx context.Context, coords []geo.Point) ([]*float64, error) {
	start := time.Now()
	elevations, err := i.source.FetchElevations(ctx, coords)
	metrics.ElevationBatchDuration.Observe(time.Since(start).Seconds())
	metrics.ElevationBatches.Inc()
	if err != nil {
		if ctx.Err() == nil {
			metrics.ElevationBatchErrors.Inc()
		}
		return nil, err
	}
	metrics.ElevationPointsFetched.Add(float64(len(coords)))
	return elevations, nil
}
