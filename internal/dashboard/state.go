package dashboard

import (
	"sync"
	"time"

	"github.com/julienpequegnot/sentimon/internal/chart"
	"github.com/julienpequegnot/sentimon/internal/drilldown"
	"github.com/julienpequegnot/sentimon/internal/rank"
	"github.com/julienpequegnot/sentimon/internal/record"
	"github.com/julienpequegnot/sentimon/internal/search"
	"github.com/julienpequegnot/sentimon/internal/trend"
)

type View string

const (
	ViewPosts  View = "posts"
	ViewDetail View = "detail"
	ViewSearch View = "search"
)

// Generation numbers the requests issued for a view.
type Generation uint64

type Filter struct {
	Source   string       `json:"source"`
	Range    record.Range `json:"range"`
	FlagOnly bool         `json:"flagOnly"`
}

// Snapshot is the displayed post set and everything derived from it. A
// snapshot is never modified after it is committed.
type Snapshot struct {
	Filter   Filter                      `json:"filter"`
	Posts    []record.Post               `json:"posts"`
	Summary  rank.Summary                `json:"summary"`
	Charts   map[string]chart.Projection `json:"charts"`
	Trends   []trend.Series              `json:"trends"`
	LoadedAt time.Time                   `json:"loadedAt"`
}

// State holds what the dashboard currently shows. Each view accepts a
// result only from the latest request issued for it.
type State struct {
	mu       sync.RWMutex
	issued   map[View]Generation
	snapshot *Snapshot
	detail   *drilldown.Detail
	search   *search.Result
}

func NewState() *State {
	return &State{issued: make(map[View]Generation)}
}

// Begin issues the next generation for v, superseding earlier ones.
func (s *State) Begin(v View) Generation {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.issued[v]++
	return s.issued[v]
}

func (s *State) Latest(v View) Generation {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.issued[v]
}

// commit runs apply under the lock when gen is still current for v.
func (s *State) commit(v View, gen Generation, apply func()) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if gen != s.issued[v] {
		return false
	}
	apply()
	return true
}

func (s *State) CommitSnapshot(gen Generation, snap *Snapshot) bool {
	return s.commit(ViewPosts, gen, func() { s.snapshot = snap })
}

func (s *State) CommitDetail(gen Generation, d *drilldown.Detail) bool {
	return s.commit(ViewDetail, gen, func() { s.detail = d })
}

func (s *State) CommitSearch(gen Generation, r *search.Result) bool {
	return s.commit(ViewSearch, gen, func() { s.search = r })
}

func (s *State) Snapshot() *Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshot
}

func (s *State) Detail() *drilldown.Detail {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.detail
}

func (s *State) Search() *search.Result {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.search
}
