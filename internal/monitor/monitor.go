// Package monitor runs the periodic pitch anomaly sweep.
package monitor

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/scaninstead/api/internal/entity"
)

const (
	defaultInterval = 30 * time.Minute
	sweepWindow     = 24 * time.Hour

	similarityFloor = 0.6
	rapidGap        = time.Minute
	rapidGapLimit   = 3
)

// PitchSource lists recent pitches for the sweep.
type PitchSource interface {
	ListRecent(ctx context.Context, since time.Time) ([]entity.Pitch, error)
}

// DuplicateGroup is a set of pitches with near-identical content.
type DuplicateGroup struct {
	PitchIDs  []uuid.UUID `json:"pitchIds"`
	Identical bool        `json:"identical"`
}

// RapidBurst flags a homeowner who received a run of submissions faster than
// a human would produce.
type RapidBurst struct {
	HomeownerID uuid.UUID `json:"homeownerId"`
	Count       int       `json:"count"`
}

// Stats is the result of one sweep.
type Stats struct {
	SweptAt         time.Time        `json:"sweptAt"`
	WindowStart     time.Time        `json:"windowStart"`
	TotalPitches    int              `json:"totalPitches"`
	SpamPitches     int              `json:"spamPitches"`
	DuplicateGroups []DuplicateGroup `json:"duplicateGroups"`
	RapidBursts     []RapidBurst     `json:"rapidBursts"`
}

// Service sweeps recent pitches on a fixed interval and keeps the latest
// stats for the admin endpoint.
type Service struct {
	source   PitchSource
	interval time.Duration
	log      zerolog.Logger

	mu   sync.RWMutex
	last *Stats

	once sync.Once
	done chan struct{}
}

// NewService constructs a monitor. A non-positive interval falls back to 30
// minutes.
func NewService(source PitchSource, interval time.Duration, log zerolog.Logger) *Service {
	if interval <= 0 {
		interval = defaultInterval
	}
	return &Service{
		source:   source,
		interval: interval,
		log:      log,
		done:     make(chan struct{}),
	}
}

// Start launches the sweep loop. The first sweep runs immediately.
func (s *Service) Start(ctx context.Context) {
	go func() {
		s.runSweep(ctx)
		for {
			select {
			case <-ctx.Done():
				return
			case <-s.done:
				return
			case <-time.After(s.interval):
				s.runSweep(ctx)
			}
		}
	}()
}

// Stop terminates the sweep loop.
func (s *Service) Stop() {
	s.once.Do(func() { close(s.done) })
}

// Snapshot returns the latest sweep stats, or nil before the first sweep
// completes.
func (s *Service) Snapshot() *Stats {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.last
}

func (s *Service) runSweep(ctx context.Context) {
	stats, err := s.Sweep(ctx)
	if err != nil {
		s.log.Error().Err(err).Msg("pitch sweep failed")
		return
	}
	s.mu.Lock()
	s.last = stats
	s.mu.Unlock()

	s.log.Info().
		Int("total", stats.TotalPitches).
		Int("spam", stats.SpamPitches).
		Int("duplicate_groups", len(stats.DuplicateGroups)).
		Int("rapid_bursts", len(stats.RapidBursts)).
		Msg("pitch sweep completed")
}

// Sweep examines the last day of pitches for duplicates, spam volume, and
// rapid submission bursts.
func (s *Service) Sweep(ctx context.Context) (*Stats, error) {
	now := time.Now().UTC()
	since := now.Add(-sweepWindow)

	pitches, err := s.source.ListRecent(ctx, since)
	if err != nil {
		return nil, err
	}

	stats := &Stats{
		SweptAt:         now,
		WindowStart:     since,
		TotalPitches:    len(pitches),
		DuplicateGroups: findDuplicates(pitches),
		RapidBursts:     findRapidBursts(pitches),
	}
	for _, p := range pitches {
		if p.Analysis != nil && p.Analysis.IsSpam {
			stats.SpamPitches++
		}
	}
	return stats, nil
}

// findDuplicates groups pitches whose content hashes match exactly or whose
// word overlap crosses the similarity floor.
func findDuplicates(pitches []entity.Pitch) []DuplicateGroup {
	var groups []DuplicateGroup
	grouped := make(map[uuid.UUID]bool, len(pitches))

	byHash := make(map[string][]int)
	for i, p := range pitches {
		byHash[contentHash(&p)] = append(byHash[contentHash(&p)], i)
	}
	for _, idxs := range byHash {
		if len(idxs) < 2 {
			continue
		}
		group := DuplicateGroup{Identical: true}
		for _, i := range idxs {
			group.PitchIDs = append(group.PitchIDs, pitches[i].ID)
			grouped[pitches[i].ID] = true
		}
		groups = append(groups, group)
	}

	for i := range pitches {
		if grouped[pitches[i].ID] {
			continue
		}
		group := DuplicateGroup{PitchIDs: []uuid.UUID{pitches[i].ID}}
		for j := i + 1; j < len(pitches); j++ {
			if grouped[pitches[j].ID] {
				continue
			}
			if jaccard(pitchText(&pitches[i]), pitchText(&pitches[j])) > similarityFloor {
				group.PitchIDs = append(group.PitchIDs, pitches[j].ID)
				grouped[pitches[j].ID] = true
			}
		}
		if len(group.PitchIDs) > 1 {
			grouped[pitches[i].ID] = true
			groups = append(groups, group)
		}
	}
	return groups
}

// findRapidBursts looks for more than three consecutive gaps under a minute
// per homeowner.
func findRapidBursts(pitches []entity.Pitch) []RapidBurst {
	byOwner := make(map[uuid.UUID][]time.Time)
	for _, p := range pitches {
		byOwner[p.HomeownerID] = append(byOwner[p.HomeownerID], p.CreatedAt)
	}

	var bursts []RapidBurst
	for owner, times := range byOwner {
		sort.Slice(times, func(i, j int) bool { return times[i].Before(times[j]) })
		gaps := 0
		maxRun := 0
		for i := 1; i < len(times); i++ {
			if times[i].Sub(times[i-1]) < rapidGap {
				gaps++
				if gaps > maxRun {
					maxRun = gaps
				}
			} else {
				gaps = 0
			}
		}
		if maxRun > rapidGapLimit {
			bursts = append(bursts, RapidBurst{HomeownerID: owner, Count: maxRun + 1})
		}
	}
	return bursts
}

func pitchText(p *entity.Pitch) string {
	if p.Hidden != nil && p.Hidden.ExtractedText != "" {
		return strings.ToLower(p.Hidden.ExtractedText)
	}
	return strings.ToLower(p.Offer + " " + p.Reason)
}

func contentHash(p *entity.Pitch) string {
	sum := sha256.Sum256([]byte(pitchText(p)))
	return hex.EncodeToString(sum[:])
}

func jaccard(a, b string) float64 {
	setA := wordSet(a)
	setB := wordSet(b)
	if len(setA) == 0 || len(setB) == 0 {
		return 0
	}
	intersect := 0
	for w := range setA {
		if _, ok := setB[w]; ok {
			intersect++
		}
	}
	union := len(setA) + len(setB) - intersect
	return float64(intersect) / float64(union)
}

func wordSet(text string) map[string]struct{} {
	set := make(map[string]struct{})
	for _, w := range strings.Fields(text) {
		w = strings.Trim(w, ".,!?;:\"'()")
		if len(w) > 2 {
			set[w] = struct{}{}
		}
	}
	return set
}
