package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/apex/log"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/julienpequegnot/sentimon/internal/dashboard"
	"github.com/julienpequegnot/sentimon/internal/docstore"
)

const (
	EndPointHealth     = "/api/health"
	EndPointPosts      = "/api/posts"
	EndPointList       = "/api/list/:key"
	EndPointCharts     = "/api/charts/:name"
	EndPointTrends     = "/api/trends"
	EndPointSearch     = "/api/search"
	EndPointPost       = "/api/posts/:id"
	EndPointAuthor     = "/api/authors/:name"
	EndPointCategory   = "/api/categories/:category/:date"
	EndPointEvents     = "/api/events"
	EndPointDashboard  = "/"
	requestIDHeader    = "X-Request-ID"
	shutdownGraceDelay = 10 * time.Second
)

type Server struct {
	ctrl          *dashboard.Controller
	router        *gin.Engine
	defaultSource string
}

func New(ctrl *dashboard.Controller, defaultSource string) *Server {
	router := gin.New()
	router.Use(gin.Recovery(), requestID(), accessLog(), cors(), validSource())

	s := &Server{
		ctrl:          ctrl,
		router:        router,
		defaultSource: defaultSource,
	}

	router.GET(EndPointHealth, s.health)
	router.GET(EndPointPosts, s.posts)
	router.GET(EndPointList, s.list)
	router.GET(EndPointCharts, s.chart)
	router.GET(EndPointTrends, s.trends)
	router.GET(EndPointSearch, s.search)
	router.GET(EndPointPost, s.post)
	router.GET(EndPointAuthor, s.author)
	router.GET(EndPointCategory, s.category)
	router.POST(EndPointEvents, s.event)
	router.GET(EndPointDashboard, s.dashboard)

	return s
}

func (s *Server) Handler() http.Handler {
	return s.router
}

// Run serves on addr until ctx is canceled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{Addr: addr, Handler: s.router}

	errCh := make(chan error, 1)
	go func() {
		log.WithField("addr", addr).Info("http server listening")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownGraceDelay)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

func requestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(requestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		c.Set("request_id", id)
		c.Header(requestIDHeader, id)
		c.Next()
	}
}

func accessLog() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		log.WithFields(log.Fields{
			"request_id": c.GetString("request_id"),
			"method":     c.Request.Method,
			"path":       c.Request.URL.Path,
			"status":     c.Writer.Status(),
			"duration":   time.Since(start).String(),
		}).Debug("http request")
	}
}

// validSource rejects requests whose source parameter cannot name a
// collection.
func validSource() gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := docstore.ValidateSource(c.Query("source")); err != nil {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.Next()
	}
}

func cors() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, X-Request-ID")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}
