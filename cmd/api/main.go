package main

import (
	"context"
	"crypto/subtle"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"github.com/minho-song/newsarchiver/internal/adapters"
	"github.com/minho-song/newsarchiver/internal/api"
	"github.com/minho-song/newsarchiver/internal/config"
	"github.com/minho-song/newsarchiver/internal/crawler"
	"github.com/minho-song/newsarchiver/internal/keyword"
	"github.com/minho-song/newsarchiver/internal/scheduler"
	"github.com/minho-song/newsarchiver/internal/storage"
)

func main() {
	cfg := config.Load()

	var mirror *storage.Mirror
	if cfg.PostgresDSN != "" {
		m, err := storage.NewMirror(cfg.PostgresDSN)
		if err != nil {
			log.Fatalf("init mirror failed: %v", err)
		}
		mirror = m
	}

	var rdb *redis.Client
	if cfg.RedisAddr != "" {
		rdb = redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		if err := rdb.Ping(ctx).Err(); err != nil {
			log.Printf("warn: redis ping failed: %v", err)
		}
		cancel()
	}

	fetch := crawler.NewHTTPFetcher(cfg.FetchTimeout, 0)
	sources := adapters.Sources(fetch, adapters.Defaults{
		PageWorkers:      cfg.PageWorkers,
		PageLimit:        cfg.PageLimit,
		StaleWindow:      cfg.StaleWindow,
		StaleStreak:      cfg.StaleStreak,
		PageDelay:        cfg.PageDelay,
		RenderExtractURL: cfg.RenderExtractURL,
	})

	names := make([]string, 0, len(sources))
	for _, src := range sources {
		name := src.Adapter.Name()
		names = append(names, name)
		if err := mirror.EnsureSource(name, name, src.Adapter.EntryURLs()[0]); err != nil {
			log.Fatalf("ensure source %s failed: %v", name, err)
		}
	}

	runner := &crawler.Runner{Fetch: fetch, MinMatches: cfg.MinKeywords}
	keywords := keyword.NewRemoteStore(cfg.KeywordURL, cfg.KeywordFallback)

	s, err := scheduler.New(cfg.CronSpec, sources, runner, keywords, cfg.DataDir, mirror, cfg.RunTimeout)
	if err != nil {
		log.Fatalf("init scheduler failed: %v", err)
	}
	s.Start()

	r := gin.Default()
	if cfg.BasicAuthUser != "" && cfg.BasicAuthPass != "" {
		r.Use(basicAuthMiddleware(cfg.BasicAuthUser, cfg.BasicAuthPass))
	}

	server := api.NewServer(cfg.DataDir, names, rdb, mirror, s.RunOnce)
	server.RegisterRoutes(r)

	addr := ":" + cfg.AppPort
	log.Printf("starting api server at %s ...", addr)
	if err := r.Run(addr); err != nil {
		log.Fatalf("server exit: %v", err)
	}
}

// basicAuthMiddleware protects everything except /health, which stays
// open for liveness probes.
func basicAuthMiddleware(user, pass string) gin.HandlerFunc {
	const realm = "Restricted"
	uBytes := []byte(user)
	pBytes := []byte(pass)

	return func(c *gin.Context) {
		if c.Request.URL.Path == "/health" {
			c.Next()
			return
		}
		u, p, ok := c.Request.BasicAuth()
		if !ok ||
			subtle.ConstantTimeCompare([]byte(u), uBytes) != 1 ||
			subtle.ConstantTimeCompare([]byte(p), pBytes) != 1 {
			c.Header("WWW-Authenticate", `Basic realm="`+realm+`"`)
			c.AbortWithStatus(http.StatusUnauthorized)
			return
		}
		c.Next()
	}
}
