package dashboard

import (
	"errors"
	"fmt"
	"strings"

	"github.com/julienpequegnot/sentimon/internal/chart"
	"github.com/julienpequegnot/sentimon/internal/drilldown"
	"github.com/julienpequegnot/sentimon/internal/rank"
	"github.com/julienpequegnot/sentimon/internal/trend"
)

type Component string

type Action string

const (
	WeightedChart   Component = chart.WeightedChartID
	RawChart        Component = chart.RawChartID
	EngagementChart Component = chart.EngagementChartID
	CommentsChart   Component = chart.CommentsChartID
	TrendChart      Component = chart.TrendChartID
	PostList        Component = "postList"
	AuthorList      Component = "authorList"
)

const (
	Click  Action = "click"
	Legend Action = "legend"
)

var ErrNoHandler = errors.New("no handler for event")

// Event is a user interaction with a dashboard component. Index is the
// position of the clicked element, Name its label (a date on the trend
// chart, an author on the author list) and Series the series it belongs
// to.
type Event struct {
	Component Component `json:"component"`
	Action    Action    `json:"action"`
	Index     int       `json:"index"`
	Name      string    `json:"name"`
	Series    string    `json:"series"`
	List      rank.Key  `json:"list,omitempty"`
}

type EventKey struct {
	Component Component
	Action    Action
}

// Handler turns an event into the drill-down target it selects.
type Handler func(snap *Snapshot, ev Event) (drilldown.Target, error)

// Events maps (component, action) pairs to handlers.
type Events map[EventKey]Handler

func (e Events) Lookup(ev Event) (Handler, error) {
	h, ok := e[EventKey{ev.Component, ev.Action}]
	if !ok {
		return nil, fmt.Errorf("%w: %s/%s", ErrNoHandler, ev.Component, ev.Action)
	}
	return h, nil
}

// DefaultEvents wires chart and list clicks to drill-downs. limit is the
// length of the displayed post list.
func DefaultEvents(limit int) Events {
	return Events{
		{WeightedChart, Click}:   chartPost(chart.NameWeighted),
		{RawChart, Click}:        chartPost(chart.NameRaw),
		{EngagementChart, Click}: chartPost(chart.NameEngagement),
		{CommentsChart, Click}:   chartPost(chart.NameComments),
		{PostList, Click}:        listPost(limit),
		{AuthorList, Click}:      author,
		{TrendChart, Click}:      categoryPoint,
		{TrendChart, Legend}:     categoryLatest,
	}
}

func chartPost(name string) Handler {
	return func(snap *Snapshot, ev Event) (drilldown.Target, error) {
		p, ok := snap.Charts[name]
		if !ok {
			return drilldown.Target{}, fmt.Errorf("chart %s is not loaded", name)
		}
		id, ok := p.ID(ev.Index)
		if !ok {
			return drilldown.Target{}, fmt.Errorf("no element %d in chart %s", ev.Index, name)
		}
		return drilldown.Target{Kind: drilldown.KindPost, Source: snap.Filter.Source, PostID: id}, nil
	}
}

func listPost(limit int) Handler {
	if limit <= 0 {
		limit = rank.DefaultLimit
	}
	return func(snap *Snapshot, ev Event) (drilldown.Target, error) {
		key := ev.List
		if key == "" {
			key = rank.DefaultKey
		}
		posts := rank.TopN(snap.Posts, key, limit)
		if ev.Index < 0 || ev.Index >= len(posts) {
			return drilldown.Target{}, fmt.Errorf("no row %d in list %s", ev.Index, key)
		}
		return drilldown.Target{Kind: drilldown.KindPost, Source: snap.Filter.Source, PostID: posts[ev.Index].ID}, nil
	}
}

func author(snap *Snapshot, ev Event) (drilldown.Target, error) {
	if ev.Name == "" {
		return drilldown.Target{}, errors.New("author event without a name")
	}
	return drilldown.Target{Kind: drilldown.KindAuthor, Source: snap.Filter.Source, Author: ev.Name}, nil
}

func categoryPoint(snap *Snapshot, ev Event) (drilldown.Target, error) {
	category := strings.TrimSuffix(ev.Series, chart.MovingSuffix)
	if category == "" || ev.Name == "" {
		return drilldown.Target{}, errors.New("trend event needs a series and a date")
	}
	return drilldown.Target{Kind: drilldown.KindCategory, Source: snap.Filter.Source, Category: category, Date: ev.Name}, nil
}

func categoryLatest(snap *Snapshot, ev Event) (drilldown.Target, error) {
	category := strings.TrimSuffix(ev.Series, chart.MovingSuffix)
	s, ok := trend.Find(snap.Trends, category)
	if !ok {
		return drilldown.Target{}, fmt.Errorf("category %q is not charted", category)
	}
	p, ok := s.Latest()
	if !ok {
		return drilldown.Target{}, fmt.Errorf("category %q has no data", category)
	}
	return drilldown.Target{Kind: drilldown.KindCategory, Source: snap.Filter.Source, Category: s.Category, Date: p.Date}, nil
}

// Dispatch runs the handler registered for ev against snap and returns
// the target it selects.
func (e Events) Dispatch(snap *Snapshot, ev Event) (drilldown.Target, error) {
	h, err := e.Lookup(ev)
	if err != nil {
		return drilldown.Target{}, err
	}
	if snap == nil {
		return drilldown.Target{}, errors.New("no data loaded")
	}
	return h(snap, ev)
}
