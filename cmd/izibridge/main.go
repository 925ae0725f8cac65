package main

import (
	"github.com/bwmarrin/snowflake"
	"go.uber.org/fx"

	"github.com/andeanlabs/izibridge/internal/commerce/woocommerce"
	"github.com/andeanlabs/izibridge/internal/config"
	"github.com/andeanlabs/izibridge/internal/gateway/izipay"
	"github.com/andeanlabs/izibridge/internal/observability"
	"github.com/andeanlabs/izibridge/internal/ratelimit"
	"github.com/andeanlabs/izibridge/internal/reconcile"
	"github.com/andeanlabs/izibridge/internal/server"
	"github.com/andeanlabs/izibridge/internal/status"
	"github.com/andeanlabs/izibridge/pkg/db"
)

func main() {
	app := fx.New(
		// Core infrastructure
		config.Module,
		observability.Module,
		fx.Provide(RegisterSnowflake),
		db.Module,
		ratelimit.Module,

		// Collaborators and reconciliation pipeline
		status.Module,
		izipay.Module,
		woocommerce.Module,
		reconcile.Module,

		server.Module,
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
