package main

import (
	"github.com/bwmarrin/snowflake"
	"github.com/gatherhq/gatherpay/internal/account"
	"github.com/gatherhq/gatherpay/internal/catalog"
	"github.com/gatherhq/gatherpay/internal/checkout"
	"github.com/gatherhq/gatherpay/internal/clock"
	"github.com/gatherhq/gatherpay/internal/config"
	"github.com/gatherhq/gatherpay/internal/gateway"
	"github.com/gatherhq/gatherpay/internal/migration"
	"github.com/gatherhq/gatherpay/internal/notifier"
	"github.com/gatherhq/gatherpay/internal/observability"
	"github.com/gatherhq/gatherpay/internal/revenue"
	"github.com/gatherhq/gatherpay/internal/server"
	"github.com/gatherhq/gatherpay/internal/webhook"
	"github.com/gatherhq/gatherpay/pkg/db"
	"go.uber.org/fx"
)

func main() {
	app := fx.New(
		config.Module,
		observability.Module,
		fx.Provide(RegisterSnowflake),
		db.Module,
		migration.Module,
		clock.Module,

		gateway.Module,
		notifier.Module,
		account.Module,
		catalog.Module,
		checkout.Module,
		webhook.Module,
		revenue.Module,

		fx.Provide(server.NewEngine),
		fx.Provide(server.NewServer),
		fx.Invoke(func(s *server.Server) {
			s.RegisterPaymentRoutes()
		}),
		fx.Invoke(server.RunHTTP),
	)
	app.Run()
}

func RegisterSnowflake() *snowflake.Node {
	node, err := snowflake.NewNode(1)
	if err != nil {
		panic(err)
	}
	return node
}
