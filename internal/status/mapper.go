// Package status translates the gateway's transaction status vocabulary into
// WooCommerce order statuses. The mapping table is read from the statusmap
// config holder so deployments can adjust it without a rebuild; both lookups
// are total and never error.
package status

import (
	"strings"

	"github.com/andeanlabs/izibridge/internal/config"
	"go.uber.org/fx"
)

var Module = fx.Module("status.mapper",
	fx.Provide(NewMapper),
)

type Mapper struct {
	holder *config.StatusMapHolder
}

func NewMapper(holder *config.StatusMapHolder) *Mapper {
	return &Mapper{holder: holder}
}

// IsSuccessful reports whether the gateway status counts as a settled
// payment. A notification about anything else must never flip an order to
// paid.
func (m *Mapper) IsSuccessful(status string) bool {
	status = strings.ToUpper(strings.TrimSpace(status))
	if status == "" {
		return false
	}
	for _, candidate := range m.holder.Get().Success {
		if strings.ToUpper(strings.TrimSpace(candidate)) == status {
			return true
		}
	}
	return false
}

// OrderStatus maps the gateway status into the commerce backend's order
// status vocabulary. Unrecognized statuses map to the configured default.
func (m *Mapper) OrderStatus(status string) string {
	cfg := m.holder.Get()
	status = strings.ToUpper(strings.TrimSpace(status))
	for candidate, mapped := range cfg.Statuses {
		if strings.ToUpper(strings.TrimSpace(candidate)) == status {
			return mapped
		}
	}
	return cfg.DefaultStatus
}
