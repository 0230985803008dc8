package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

type ensureAccountRequest struct {
	HostUserID string `json:"host_user_id"`
}

func (s *Server) EnsureAccount(c *gin.Context) {
	var req ensureAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	accountID, err := s.accountSvc.EnsureAccount(c.Request.Context(), strings.TrimSpace(req.HostUserID))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":            true,
		"gateway_account_id": accountID,
	})
}

type onboardingLinkRequest struct {
	RefreshURL string `json:"refresh_url"`
	ReturnURL  string `json:"return_url"`
}

func (s *Server) CreateOnboardingLink(c *gin.Context) {
	accountID := strings.TrimSpace(c.Param("account_id"))

	var req onboardingLinkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	url, err := s.accountSvc.OnboardingLink(c.Request.Context(), accountID,
		strings.TrimSpace(req.RefreshURL), strings.TrimSpace(req.ReturnURL))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"url":     url,
	})
}
