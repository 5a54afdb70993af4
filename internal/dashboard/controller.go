package dashboard

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/apex/log"
	"github.com/julienpequegnot/sentimon/internal/chart"
	"github.com/julienpequegnot/sentimon/internal/docstore"
	"github.com/julienpequegnot/sentimon/internal/drilldown"
	"github.com/julienpequegnot/sentimon/internal/fanout"
	"github.com/julienpequegnot/sentimon/internal/rank"
	"github.com/julienpequegnot/sentimon/internal/record"
	"github.com/julienpequegnot/sentimon/internal/search"
	"github.com/julienpequegnot/sentimon/internal/trend"
)

// ErrSuperseded is returned when a newer request for the same view was
// issued before this one finished. Its result is dropped.
var ErrSuperseded = errors.New("request superseded by a newer one")

type Options struct {
	Limit      int
	Window     int
	LabelWidth int
	Timeout    time.Duration
}

type Controller struct {
	store    docstore.Store
	state    *State
	resolver *drilldown.Resolver
	search   *search.Engine
	events   Events
	opts     Options
}

func NewController(store docstore.Store, pool *fanout.Pool, opts Options) *Controller {
	if opts.Limit <= 0 {
		opts.Limit = rank.DefaultLimit
	}
	if opts.Window <= 0 {
		opts.Window = trend.DefaultWindow
	}
	if opts.LabelWidth <= 0 {
		opts.LabelWidth = chart.DefaultLabelWidth
	}
	return &Controller{
		store:    store,
		state:    NewState(),
		resolver: drilldown.NewResolver(store, pool),
		search:   search.NewEngine(store, pool),
		events:   DefaultEvents(opts.Limit),
		opts:     opts,
	}
}

func (c *Controller) State() *State {
	return c.state
}

func (c *Controller) Events() Events {
	return c.events
}

func (c *Controller) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if c.opts.Timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, c.opts.Timeout)
}

// Filter loads the posts and category trends for f and makes them the
// displayed snapshot. A newer Filter issued meanwhile wins and this one
// returns ErrSuperseded.
func (c *Controller) Filter(ctx context.Context, f Filter) (*Snapshot, error) {
	gen := c.state.Begin(ViewPosts)
	snap, err := c.load(ctx, f)
	if err != nil {
		return nil, err
	}
	if !c.state.CommitSnapshot(gen, snap) {
		return nil, ErrSuperseded
	}
	return snap, nil
}

// Current returns the displayed snapshot when it was built for f, and
// loads one otherwise. The loaded snapshot is returned to the caller even
// when a newer request has replaced the displayed one.
func (c *Controller) Current(ctx context.Context, f Filter) (*Snapshot, error) {
	if snap := c.state.Snapshot(); snap != nil && snap.Filter == f {
		return snap, nil
	}
	gen := c.state.Begin(ViewPosts)
	snap, err := c.load(ctx, f)
	if err != nil {
		return nil, err
	}
	if !c.state.CommitSnapshot(gen, snap) {
		log.WithField("source", f.Source).Debug("snapshot not displayed, newer filter pending")
	}
	return snap, nil
}

func (c *Controller) load(ctx context.Context, f Filter) (*Snapshot, error) {
	ctx, cancel := c.withTimeout(ctx)
	defer cancel()

	docs, err := c.store.QueryPosts(ctx, docstore.PostQuery{Source: f.Source, Range: f.Range, FlagOnly: f.FlagOnly})
	if err != nil {
		return nil, fmt.Errorf("failed to load posts: %w", err)
	}
	posts := docstore.Posts(docs)

	series, err := c.trends(ctx, f.Source, f.Range)
	if err != nil {
		log.WithError(err).WithField("source", f.Source).Warn("trends unavailable")
		series = []trend.Series{}
	}

	summary := rank.Summarize(posts)
	width := c.opts.LabelWidth
	snap := &Snapshot{
		Filter:  f,
		Posts:   posts,
		Summary: summary,
		Charts: map[string]chart.Projection{
			chart.NameWeighted:   chart.WeightedSentiment(posts, width),
			chart.NameRaw:        chart.RawSentiment(posts, width),
			chart.NameEngagement: chart.Engagement(posts, width),
			chart.NameComments:   chart.Comments(posts, width),
			chart.NamePie:        chart.SentimentPie(summary),
			chart.NameCategories: chart.CategoryTotals(series, width),
		},
		Trends:   series,
		LoadedAt: time.Now(),
	}

	log.WithFields(log.Fields{
		"source": f.Source,
		"range":  f.Range.String(),
		"posts":  len(posts),
		"trends": len(series),
	}).Debug("dashboard loaded")
	return snap, nil
}

// List ranks the displayed posts by key.
func (c *Controller) List(key rank.Key) []record.Post {
	return c.Rank(c.state.Snapshot(), key)
}

// Rank orders the posts of snap by key, up to the configured limit.
func (c *Controller) Rank(snap *Snapshot, key rank.Key) []record.Post {
	if snap == nil {
		return []record.Post{}
	}
	return rank.TopN(snap.Posts, key, c.opts.Limit)
}

// Trends loads category series for rng without touching the snapshot.
func (c *Controller) Trends(ctx context.Context, source string, rng record.Range) ([]trend.Series, error) {
	ctx, cancel := c.withTimeout(ctx)
	defer cancel()
	return c.trends(ctx, source, rng)
}

func (c *Controller) trends(ctx context.Context, source string, rng record.Range) ([]trend.Series, error) {
	docs, err := c.store.ListCategoryDays(ctx, source, rng)
	if err != nil {
		return nil, fmt.Errorf("failed to load category stats: %w", err)
	}
	return trend.Aggregate(docstore.CategoryDays(docs), rng, c.opts.Window), nil
}

func (c *Controller) Search(ctx context.Context, q search.Query) (*search.Result, error) {
	gen := c.state.Begin(ViewSearch)
	ctx, cancel := c.withTimeout(ctx)
	defer cancel()

	res, err := c.search.Search(ctx, q)
	if err != nil {
		return nil, err
	}
	if !c.state.CommitSearch(gen, res) {
		return nil, ErrSuperseded
	}
	return res, nil
}

// Open resolves a drill-down target and shows it.
func (c *Controller) Open(ctx context.Context, t drilldown.Target) (*drilldown.Detail, error) {
	gen := c.state.Begin(ViewDetail)
	ctx, cancel := c.withTimeout(ctx)
	defer cancel()

	d, err := c.resolver.Resolve(ctx, t)
	if err != nil {
		log.WithError(err).WithField("kind", string(t.Kind)).Warn("drill-down failed")
		d = drilldown.Failed(t)
	}
	if !c.state.CommitDetail(gen, d) {
		return nil, ErrSuperseded
	}
	return d, err
}

// Select dispatches a component event against the displayed snapshot.
func (c *Controller) Select(ctx context.Context, ev Event) (*drilldown.Detail, error) {
	target, err := c.events.Dispatch(c.state.Snapshot(), ev)
	if err != nil {
		return nil, err
	}
	return c.Open(ctx, target)
}
