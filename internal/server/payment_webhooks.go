package server

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
)

// HandleGatewayWebhook reads the raw body untouched so the signature is
// computed over exactly the bytes the gateway signed.
func (s *Server) HandleGatewayWebhook(c *gin.Context) {
	payload, err := io.ReadAll(c.Request.Body)
	if err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	if err := s.webhookSvc.Handle(c.Request.Context(), payload, c.Request.Header); err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"received": true})
}
