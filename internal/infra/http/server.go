package http

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/DSHIVAAY-23/Universal-Privacy-Engine/internal/config"
	"github.com/DSHIVAAY-23/Universal-Privacy-Engine/internal/domain"
	"github.com/DSHIVAAY-23/Universal-Privacy-Engine/internal/infra/notary"
	"github.com/DSHIVAAY-23/Universal-Privacy-Engine/internal/infra/ratelimit"
)

// Server exposes the notary signing service. The signer holds the only
// mutable-free shared state (the key material), so handlers need no
// coordination beyond the optional rate limiter.
type Server struct {
	cfg    config.Config
	signer *notary.Signer
	r      *gin.Engine

	rateLimiter       domain.RateLimiter
	rateLimitRequests int
	rateLimitWindow   time.Duration
}

func NewServer(cfg config.Config, signer *notary.Signer) *Server {
	r := gin.New()
	r.Use(gin.Recovery())

	s := &Server{cfg: cfg, signer: signer, r: r}
	s.initRateLimit(nil)
	s.routes()
	return s
}

// NewServerWithLimiter injects a rate limiter, primarily for tests.
func NewServerWithLimiter(cfg config.Config, signer *notary.Signer, limiter domain.RateLimiter) *Server {
	r := gin.New()
	r.Use(gin.Recovery())

	s := &Server{cfg: cfg, signer: signer, r: r}
	s.initRateLimit(limiter)
	s.routes()
	return s
}

func (s *Server) initRateLimit(override domain.RateLimiter) {
	if override != nil {
		s.rateLimiter = override
	}
	if s.rateLimiter == nil && s.cfg.RateLimitRequests > 0 {
		if s.cfg.RedisAddr != "" {
			if limiter, err := ratelimit.NewRedisLimiter(s.cfg.RedisAddr, s.cfg.RedisPassword, s.cfg.RedisDB, nil); err == nil {
				s.rateLimiter = limiter
			}
		}
		if s.rateLimiter == nil {
			s.rateLimiter = ratelimit.NewMemoryLimiter(ratelimit.MemoryLimiterConfig{
				MaxKeys: s.cfg.RateLimitMaxKeys,
			})
		}
	}
	s.rateLimitRequests = s.cfg.RateLimitRequests
	s.rateLimitWindow = s.cfg.RateLimitWindow()
}

func (s *Server) routes() {
	s.r.GET("/healthz", s.handleHealth)

	api := s.r.Group("/api")
	{
		api.GET("/health", s.handleHealth)
		api.POST("/generate-proof", s.rateLimit, s.handleGenerateProof)
	}
}

func (s *Server) Run() error {
	return s.r.Run(s.cfg.HTTPAddr)
}
