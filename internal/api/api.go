// Package api exposes the tracker over a small JSON HTTP API.
package api

import (
	"context"
	"crypto/subtle"
	"errors"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/Tiliavir/stress-proof-tracker/internal/digest"
	"github.com/Tiliavir/stress-proof-tracker/internal/logger"
	"github.com/Tiliavir/stress-proof-tracker/internal/model"
	"github.com/Tiliavir/stress-proof-tracker/internal/tracker"
)

// DigestUnavailable is shown when no headline could be fetched.
const DigestUnavailable = "Digest unavailable right now."

// Digester returns the current headline digest.
type Digester interface {
	Fetch(ctx context.Context) ([]digest.Item, error)
}

// Config holds the server's access settings.
type Config struct {
	// APIKey, when set, must be sent in X-API-Key on every POST.
	APIKey         string
	AllowedOrigins []string
}

// NewRouter wires every route onto a gin engine. d may be nil, in which case
// /digest always reports the digest as unavailable.
func NewRouter(t *tracker.Tracker, d Digester, cfg Config) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), requestID(), requestLog())
	if len(cfg.AllowedOrigins) > 0 {
		r.Use(cors.New(cors.Config{
			AllowOrigins:  cfg.AllowedOrigins,
			AllowMethods:  []string{"GET", "POST", "OPTIONS"},
			AllowHeaders:  []string{"Origin", "Content-Type", "X-API-Key"},
			ExposeHeaders: []string{"X-Request-ID"},
			MaxAge:        12 * time.Hour,
		}))
	}

	h := &handlers{tracker: t, digester: d}
	r.GET("/health", h.health)
	r.GET("/summary", h.summary)
	r.GET("/digest", h.headlines)
	r.GET("/entries", h.entries)
	r.GET("/books", h.books)
	r.GET("/watchlist", h.watchlist)

	w := r.Group("/", requireKey(cfg.APIKey))
	w.POST("/entries", h.checkIn)
	w.POST("/books", h.addBook)
	w.POST("/books/finish", h.finishBook)
	w.POST("/watchlist", h.addWatchItem)
	w.POST("/watchlist/finish", h.finishWatchItem)
	return r
}

func requestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader("X-Request-ID")
		if id == "" {
			id = uuid.NewString()
		}
		c.Set("request_id", id)
		c.Header("X-Request-ID", id)
		c.Next()
	}
}

func requestLog() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		logger.Debug("request",
			"method", c.Request.Method,
			"path", c.FullPath(),
			"status", c.Writer.Status(),
			"duration", time.Since(start),
			"request_id", c.GetString("request_id"),
		)
	}
}

func requireKey(key string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if key == "" {
			c.Next()
			return
		}
		if subtle.ConstantTimeCompare([]byte(c.GetHeader("X-API-Key")), []byte(key)) != 1 {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}
		c.Next()
	}
}

type handlers struct {
	tracker  *tracker.Tracker
	digester Digester
}

type titleRequest struct {
	Title    string `json:"title"`
	ItemType string `json:"item_type"`
}

func (h *handlers) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok", "backend": h.tracker.Backend().Name()})
}

func (h *handlers) summary(c *gin.Context) {
	c.JSON(http.StatusOK, h.tracker.State(c.Request.Context()).Summary)
}

func (h *handlers) entries(c *gin.Context) {
	c.JSON(http.StatusOK, h.tracker.State(c.Request.Context()).Entries)
}

func (h *handlers) books(c *gin.Context) {
	c.JSON(http.StatusOK, h.tracker.State(c.Request.Context()).Books)
}

func (h *handlers) watchlist(c *gin.Context) {
	c.JSON(http.StatusOK, h.tracker.State(c.Request.Context()).Watchlist)
}

func (h *handlers) headlines(c *gin.Context) {
	if h.digester == nil {
		c.JSON(http.StatusOK, gin.H{"items": []digest.Item{}, "message": DigestUnavailable})
		return
	}
	items, err := h.digester.Fetch(c.Request.Context())
	if err != nil {
		logger.Warn("digest unavailable", "err", err)
		c.JSON(http.StatusOK, gin.H{"items": []digest.Item{}, "message": DigestUnavailable})
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": items})
}

func (h *handlers) checkIn(c *gin.Context) {
	var e model.DailyEntry
	if err := c.ShouldBindJSON(&e); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if e.Mood == 0 {
		e.Mood = model.DefaultMood
	}
	st, err := h.tracker.CheckIn(c.Request.Context(), e)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, st)
}

func (h *handlers) addBook(c *gin.Context) {
	var req titleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	st, err := h.tracker.AddBook(c.Request.Context(), req.Title)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, st.Books)
}

func (h *handlers) finishBook(c *gin.Context) {
	var req titleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	n, st, err := h.tracker.FinishBook(c.Request.Context(), req.Title)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"updated": n, "books": st.Books})
}

func (h *handlers) addWatchItem(c *gin.Context) {
	var req titleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	st, err := h.tracker.AddWatchItem(c.Request.Context(), req.Title, model.ItemType(req.ItemType))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, st.Watchlist)
}

func (h *handlers) finishWatchItem(c *gin.Context) {
	var req titleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	n, st, err := h.tracker.FinishWatchItem(c.Request.Context(), req.Title)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"updated": n, "watchlist": st.Watchlist})
}

// writeError maps validation failures to 400 and everything else to 500.
func writeError(c *gin.Context, err error) {
	var ve *model.ValidationError
	if errors.As(err, &ve) {
		c.JSON(http.StatusBadRequest, gin.H{"error": ve.Error(), "field": ve.Field})
		return
	}
	logger.Error("request failed", "path", c.FullPath(), "err", err, "request_id", c.GetString("request_id"))
	c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
}
