package server

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	accountdomain "github.com/gatherhq/gatherpay/internal/account/domain"
	catalogdomain "github.com/gatherhq/gatherpay/internal/catalog/domain"
	checkoutdomain "github.com/gatherhq/gatherpay/internal/checkout/domain"
	"github.com/gatherhq/gatherpay/internal/config"
	"github.com/gatherhq/gatherpay/internal/observability"
	obsmiddleware "github.com/gatherhq/gatherpay/internal/observability/logger"
	obstracing "github.com/gatherhq/gatherpay/internal/observability/tracing"
	revenuedomain "github.com/gatherhq/gatherpay/internal/revenue/domain"
	webhookdomain "github.com/gatherhq/gatherpay/internal/webhook/domain"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

func NewEngine(obsCfg observability.Config) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(obsmiddleware.GinMiddleware(obsmiddleware.MiddlewareConfig{
		Debug:           obsCfg.Debug(),
		ErrorClassifier: classifyErrorForLog,
	}))
	r.Use(obstracing.GinMiddleware())
	r.Use(ErrorHandlingMiddleware())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	return r
}

type Server struct {
	engine      *gin.Engine
	cfg         config.Config
	log         *zap.Logger
	accountSvc  accountdomain.Service
	catalogSvc  catalogdomain.Service
	checkoutSvc checkoutdomain.Service
	webhookSvc  webhookdomain.Service
	revenueSvc  revenuedomain.Service
}

type ServerParams struct {
	fx.In

	Gin         *gin.Engine
	Cfg         config.Config
	Log         *zap.Logger
	AccountSvc  accountdomain.Service
	CatalogSvc  catalogdomain.Service
	CheckoutSvc checkoutdomain.Service
	WebhookSvc  webhookdomain.Service
	RevenueSvc  revenuedomain.Service
}

func NewServer(p ServerParams) *Server {
	return &Server{
		engine:      p.Gin,
		cfg:         p.Cfg,
		log:         p.Log.Named("http.server"),
		accountSvc:  p.AccountSvc,
		catalogSvc:  p.CatalogSvc,
		checkoutSvc: p.CheckoutSvc,
		webhookSvc:  p.WebhookSvc,
		revenueSvc:  p.RevenueSvc,
	}
}

func (s *Server) RegisterPaymentRoutes() {
	api := s.engine.Group("/api/payments")

	api.POST("/accounts", s.EnsureAccount)
	api.POST("/accounts/:account_id/onboarding-link", s.CreateOnboardingLink)

	api.POST("/products", s.CreateProduct)
	api.POST("/prices/:price_id/deactivate", s.DeactivatePrice)
	api.PUT("/products/:event_id/price", s.ReplacePrice)

	api.POST("/checkout-sessions", s.CreateCheckoutSession)
	api.POST("/webhooks", s.HandleGatewayWebhook)

	api.GET("/revenue/:account_id", s.RevenueOverview)
}

func RunHTTP(lc fx.Lifecycle, cfg config.Config, r *gin.Engine, log *zap.Logger) {
	srv := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: r,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			log.Info("http server listening", zap.String("addr", cfg.HTTPAddr))
			go func() {
				if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					panic(err)
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		},
	})
}
