package http

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/DSHIVAAY-23/Universal-Privacy-Engine/internal/domain"
)

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, domain.HealthResponse{
		Status:        "ok",
		NotaryAddress: s.signer.Address(),
	})
}

func (s *Server) handleGenerateProof(c *gin.Context) {
	var req domain.GenerateProofRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse{Code: "bad_request", Message: "invalid request body"})
		return
	}

	proof, err := s.signer.GenerateProof(req.EmployeeAddress)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidAddress) {
			c.JSON(http.StatusBadRequest, errorResponse{Code: "invalid_address", Message: "employee_address must be 0x followed by 40 hex characters"})
			return
		}
		// Signing failures never echo key material or request detail.
		log.Printf("generate-proof signing failed: %v", err)
		c.JSON(http.StatusInternalServerError, errorResponse{Code: "signing_failed", Message: "failed to generate proof"})
		return
	}

	c.JSON(http.StatusOK, proof)
}

func (s *Server) rateLimit(c *gin.Context) {
	if s.rateLimiter == nil || s.rateLimitRequests <= 0 {
		c.Next()
		return
	}
	decision, err := s.rateLimiter.Allow(c.Request.Context(), c.ClientIP(), s.rateLimitRequests, s.rateLimitWindow)
	if err != nil {
		// Fail open: a broken limiter must not take the notary down.
		log.Printf("rate limiter error: %v", err)
		c.Next()
		return
	}
	if !decision.Allowed {
		c.JSON(http.StatusTooManyRequests, errorResponse{Code: "rate_limited", Message: "too many requests"})
		c.Abort()
		return
	}
	c.Next()
}
