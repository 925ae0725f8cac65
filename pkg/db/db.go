package db

import (
	"github.com/andeanlabs/izibridge/internal/config"
	notifdomain "github.com/andeanlabs/izibridge/internal/notification/domain"
	"go.uber.org/fx"
	"gorm.io/gorm"
)

var Module = fx.Module("db",
	fx.Provide(Open),
	fx.Invoke(migrate),
)

func Open(cfg config.Config) (*gorm.DB, error) {
	dialect, err := Dialect(cfg)
	if err != nil {
		return nil, err
	}
	return gorm.Open(dialect, &gorm.Config{})
}

func migrate(conn *gorm.DB) error {
	return conn.AutoMigrate(&notifdomain.Record{})
}
