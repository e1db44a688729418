package report

import (
	"time"

	"github.com/Lawrennzz/AgriMarket-sub003/internal/entity"
)

// Config tunes the report engine.
type Config struct {
	AuthoritativeViewSource string        `mapstructure:"authoritative_view_source"`
	QueryTimeout            time.Duration `mapstructure:"query_timeout"`
	RetryBackoff            time.Duration `mapstructure:"retry_backoff"`
	CacheTTL                time.Duration `mapstructure:"cache_ttl"`
	RateLimitWindow         time.Duration `mapstructure:"rate_limit_window"`
	RateLimitMax            int           `mapstructure:"rate_limit_max"`
}

// ViewSource resolves the configured authoritative source, falling back to
// the default when unset or unknown.
func (c Config) ViewSource() entity.ViewSource {
	if !entity.IsValidViewSource(c.AuthoritativeViewSource) {
		return entity.ViewSourceProductViews
	}
	return entity.ViewSource(c.AuthoritativeViewSource)
}
