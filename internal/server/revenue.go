package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

func (s *Server) RevenueOverview(c *gin.Context) {
	accountID := strings.TrimSpace(c.Param("account_id"))

	overview, err := s.revenueSvc.Overview(c.Request.Context(), accountID)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"analytics": overview.Analytics,
		"payments":  overview.Payments,
	})
}
