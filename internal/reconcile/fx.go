package reconcile

import (
	"github.com/andeanlabs/izibridge/internal/notification/repository"
	"github.com/andeanlabs/izibridge/internal/reconcile/service"
	"go.uber.org/fx"
)

var Module = fx.Module("reconcile.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.NewCheckoutClient),
	fx.Provide(service.NewService),
)
