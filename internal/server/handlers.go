package server

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/apex/log"
	"github.com/gin-gonic/gin"
	"github.com/julienpequegnot/sentimon/internal/chart"
	"github.com/julienpequegnot/sentimon/internal/dashboard"
	"github.com/julienpequegnot/sentimon/internal/docstore"
	"github.com/julienpequegnot/sentimon/internal/drilldown"
	"github.com/julienpequegnot/sentimon/internal/rank"
	"github.com/julienpequegnot/sentimon/internal/record"
	"github.com/julienpequegnot/sentimon/internal/search"
)

func (s *Server) source(c *gin.Context) string {
	if v := strings.TrimSpace(c.Query("source")); v != "" {
		return v
	}
	return s.defaultSource
}

func (s *Server) filter(c *gin.Context) dashboard.Filter {
	flag, _ := strconv.ParseBool(c.DefaultQuery("flag", "false"))
	return dashboard.Filter{
		Source:   s.source(c),
		Range:    record.ParseRange(c.Query("start"), c.Query("end")),
		FlagOnly: flag,
	}
}

// fail renders err at the handler boundary.
func fail(c *gin.Context, err error) {
	status := http.StatusBadGateway
	switch {
	case errors.Is(err, search.ErrEmptyKeyword), errors.Is(err, docstore.ErrInvalidSource):
		status = http.StatusBadRequest
	case errors.Is(err, dashboard.ErrNoHandler):
		status = http.StatusBadRequest
	case errors.Is(err, dashboard.ErrSuperseded):
		status = http.StatusConflict
	}
	log.WithError(err).WithFields(log.Fields{
		"request_id": c.GetString("request_id"),
		"path":       c.Request.URL.Path,
	}).Warn("request failed")
	c.JSON(status, gin.H{"error": err.Error()})
}

func (s *Server) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "healthy", "service": "sentimon"})
}

func (s *Server) posts(c *gin.Context) {
	snap, err := s.ctrl.Current(c.Request.Context(), s.filter(c))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"posts":   snap.Posts,
		"summary": snap.Summary,
		"average": chart.AverageLabel(snap.Summary),
	})
}

func (s *Server) list(c *gin.Context) {
	key, ok := rank.ParseKey(c.Param("key"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "unknown list " + c.Param("key"), "posts": []record.Post{}})
		return
	}
	snap, err := s.ctrl.Current(c.Request.Context(), s.filter(c))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"key": key, "label": rank.Label(key), "posts": s.ctrl.Rank(snap, key)})
}

func (s *Server) chart(c *gin.Context) {
	snap, err := s.ctrl.Current(c.Request.Context(), s.filter(c))
	if err != nil {
		fail(c, err)
		return
	}
	p, ok := snap.Charts[c.Param("name")]
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "unknown chart " + c.Param("name")})
		return
	}
	c.JSON(http.StatusOK, p)
}

func (s *Server) trends(c *gin.Context) {
	f := s.filter(c)
	series, err := s.ctrl.Trends(c.Request.Context(), f.Source, f.Range)
	if err != nil {
		fail(c, err)
		return
	}
	if category := c.Query("category"); category != "" {
		key := record.CategoryKey(category)
		filtered := series[:0]
		for _, sr := range series {
			if sr.Category == key {
				filtered = append(filtered, sr)
			}
		}
		series = filtered
	}
	c.JSON(http.StatusOK, gin.H{"series": series})
}

func (s *Server) search(c *gin.Context) {
	f := s.filter(c)
	res, err := s.ctrl.Search(c.Request.Context(), search.Query{
		Keyword:  c.Query("q"),
		Source:   f.Source,
		Range:    f.Range,
		FlagOnly: f.FlagOnly,
	})
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

func (s *Server) open(c *gin.Context, t drilldown.Target) {
	d, err := s.ctrl.Open(c.Request.Context(), t)
	if err != nil {
		if d != nil {
			c.JSON(http.StatusBadGateway, gin.H{"error": err.Error(), "detail": d})
			return
		}
		fail(c, err)
		return
	}
	status := http.StatusOK
	if d.State == drilldown.StateNotFound {
		status = http.StatusNotFound
	}
	c.JSON(status, d)
}

func (s *Server) post(c *gin.Context) {
	s.open(c, drilldown.Target{Kind: drilldown.KindPost, Source: s.source(c), PostID: c.Param("id")})
}

func (s *Server) author(c *gin.Context) {
	s.open(c, drilldown.Target{Kind: drilldown.KindAuthor, Source: s.source(c), Author: c.Param("name")})
}

func (s *Server) category(c *gin.Context) {
	s.open(c, drilldown.Target{
		Kind:     drilldown.KindCategory,
		Source:   s.source(c),
		Category: c.Param("category"),
		Date:     c.Param("date"),
	})
}

func (s *Server) event(c *gin.Context) {
	var ev dashboard.Event
	if err := c.ShouldBindJSON(&ev); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid event: " + err.Error()})
		return
	}
	if s.ctrl.State().Snapshot() == nil {
		if _, err := s.ctrl.Filter(c.Request.Context(), s.filter(c)); err != nil {
			fail(c, err)
			return
		}
	}

	target, err := s.ctrl.Events().Dispatch(s.ctrl.State().Snapshot(), ev)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	s.open(c, target)
}

func (s *Server) dashboard(c *gin.Context) {
	snap, err := s.ctrl.Current(c.Request.Context(), s.filter(c))
	if err != nil {
		fail(c, err)
		return
	}

	page := dashboard.Page(snap, s.ctrl.Rank(snap, rank.DefaultKey), EndPointEvents)

	c.Header("Content-Type", "text/html; charset=utf-8")
	c.Status(http.StatusOK)
	if err := chart.RenderPage(c.Writer, page); err != nil {
		log.WithError(err).Error("failed to render dashboard")
	}
}
