package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	catalogdomain "github.com/gatherhq/gatherpay/internal/catalog/domain"
)

type createEventProductRequest struct {
	EventID          string         `json:"event_id"`
	Name             string         `json:"name"`
	Description      string         `json:"description"`
	Price            float64        `json:"price"`
	Metadata         map[string]any `json:"metadata"`
	GatewayAccountID string         `json:"gateway_account_id"`
	Currency         string         `json:"currency"`
}

func (s *Server) CreateProduct(c *gin.Context) {
	var req createEventProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	resp, err := s.catalogSvc.CreateProduct(c.Request.Context(), catalogdomain.CreateProductRequest{
		EventID:          strings.TrimSpace(req.EventID),
		Name:             strings.TrimSpace(req.Name),
		Description:      strings.TrimSpace(req.Description),
		Price:            req.Price,
		Metadata:         req.Metadata,
		GatewayAccountID: strings.TrimSpace(req.GatewayAccountID),
		Currency:         strings.TrimSpace(req.Currency),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":    true,
		"product_id": resp.ProductID,
		"price_id":   resp.PriceID,
	})
}

func (s *Server) DeactivatePrice(c *gin.Context) {
	priceID := strings.TrimSpace(c.Param("price_id"))
	if priceID == "" {
		AbortWithError(c, catalogdomain.ErrInvalidPrice)
		return
	}

	if err := s.catalogSvc.DeactivatePrice(c.Request.Context(), priceID); err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}

type replacePriceRequest struct {
	Price float64 `json:"price"`
}

func (s *Server) ReplacePrice(c *gin.Context) {
	eventID := strings.TrimSpace(c.Param("event_id"))

	var req replacePriceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	priceID, err := s.catalogSvc.ReplacePrice(c.Request.Context(), eventID, req.Price)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":  true,
		"price_id": priceID,
	})
}
