package api

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"github.com/minho-song/newsarchiver/internal/aggregator"
	"github.com/minho-song/newsarchiver/internal/storage"
)

const cacheTTL = 5 * time.Minute

// Server serves the archive over HTTP: per-source day buckets, the
// rolling two-day view and (when the mirror is configured) title
// search. Redis, when available, fronts the file reads.
type Server struct {
	dataDir string
	sources []string
	rdb     *redis.Client
	mirror  *storage.Mirror
	trigger func() // manual crawl trigger; nil disables POST /crawl
}

func NewServer(dataDir string, sources []string, rdb *redis.Client, mirror *storage.Mirror, trigger func()) *Server {
	return &Server{
		dataDir: dataDir,
		sources: sources,
		rdb:     rdb,
		mirror:  mirror,
		trigger: trigger,
	}
}

func (s *Server) RegisterRoutes(r *gin.Engine) {
	r.GET("/health", s.health)

	v1 := r.Group("/api/v1")
	{
		v1.GET("/sources", s.listSources)
		v1.GET("/archive", s.archive)
		v1.GET("/rolling", s.rolling)
		v1.GET("/search", s.search)
		v1.POST("/crawl", s.crawl)
	}
}

func (s *Server) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (s *Server) listSources(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"code":    "ok",
		"message": "success",
		"data":    s.sources,
	})
}

// archive returns one source's day buckets, optionally restricted to a
// single date label (weekday suffix optional).
func (s *Server) archive(c *gin.Context) {
	source := c.Query("source")
	if source == "" {
		c.JSON(http.StatusBadRequest, gin.H{
			"code":    "bad_request",
			"message": "source is required",
		})
		return
	}

	cacheKey := "archive:" + source + ":" + c.Query("date")
	if cached, ok := s.cacheGet(c, cacheKey); ok {
		c.Data(http.StatusOK, "application/json; charset=utf-8", cached)
		return
	}

	buckets := storage.NewFileStore(s.dataDir, source).Load()
	if date := c.Query("date"); date != "" {
		key := storage.NormalizeDateKey(date)
		filtered := buckets[:0:0]
		for _, b := range buckets {
			if storage.NormalizeDateKey(b.Date) == key {
				filtered = append(filtered, b)
			}
		}
		buckets = filtered
	}
	if buckets == nil {
		buckets = []storage.DayBucket{}
	}

	s.respondCached(c, cacheKey, gin.H{
		"code":    "ok",
		"message": "success",
		"data":    buckets,
	})
}

// rolling serves the persisted two-day aggregate document.
func (s *Server) rolling(c *gin.Context) {
	const cacheKey = "rolling:v1"
	if cached, ok := s.cacheGet(c, cacheKey); ok {
		c.Data(http.StatusOK, "application/json; charset=utf-8", cached)
		return
	}

	path := filepath.Join(s.dataDir, aggregator.RollingFile)
	buckets, err := storage.ReadDocument(path)
	if err != nil {
		if os.IsNotExist(err) {
			buckets = []storage.DayBucket{}
		} else {
			log.Printf("rolling read error: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{
				"code":    "internal_error",
				"message": "internal server error",
			})
			return
		}
	}
	if buckets == nil {
		buckets = []storage.DayBucket{}
	}

	s.respondCached(c, cacheKey, gin.H{
		"code":    "ok",
		"message": "success",
		"data":    buckets,
	})
}

func (s *Server) search(c *gin.Context) {
	if s.mirror == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"code":    "mirror_disabled",
			"message": "search requires the database mirror",
		})
		return
	}

	q := c.Query("q")
	if q == "" {
		c.JSON(http.StatusBadRequest, gin.H{
			"code":    "bad_request",
			"message": "q is required",
		})
		return
	}
	limit, err := strconv.Atoi(c.DefaultQuery("limit", "50"))
	if err != nil || limit <= 0 {
		limit = 50
	}

	rows, err := s.mirror.Search(q, limit)
	if err != nil {
		log.Printf("search error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"code":    "internal_error",
			"message": "internal server error",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"code":    "ok",
		"message": "success",
		"data":    rows,
	})
}

// crawl triggers a pass in the background and returns immediately.
func (s *Server) crawl(c *gin.Context) {
	if s.trigger == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"code":    "crawl_disabled",
			"message": "no crawl scheduler attached",
		})
		return
	}
	go s.trigger()
	c.JSON(http.StatusAccepted, gin.H{
		"code":    "ok",
		"message": "crawl started",
	})
}

func (s *Server) cacheGet(ctx context.Context, key string) ([]byte, bool) {
	if s.rdb == nil {
		return nil, false
	}
	bs, err := s.rdb.Get(ctx, key).Bytes()
	if err != nil {
		return nil, false
	}
	return bs, true
}

// respondCached writes the JSON response and backfills the cache.
func (s *Server) respondCached(c *gin.Context, key string, payload gin.H) {
	if s.rdb != nil {
		if bs, err := json.Marshal(payload); err == nil {
			_ = s.rdb.Set(c, key, bs, cacheTTL).Err()
		}
	}
	c.JSON(http.StatusOK, payload)
}
