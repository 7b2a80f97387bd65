package fetcher

import (
	"classutil-backend/internal/components/telemetry"
	"context"
	"errors"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
)

var tracer = otel.Tracer("classutil-backend/internal/fetcher")

// ErrBadStatus is returned when a page was reached but did not answer with a
// 2xx status.
var ErrBadStatus = errors.New("fetcher: bad status")

// Fetcher retrieves the raw body of a page. Any error means there is no page.
type Fetcher interface {
	Fetch(ctx context.Context, url string) ([]byte, error)
}

const (
	KIND_RESTY = "resty"
	KIND_COLLY = "colly"
	KIND_DIR   = "dir"
)

type Config struct {
	Kind              string  `json:"kind" yaml:"kind"`
	TimeoutSeconds    int     `json:"timeout_seconds" yaml:"timeout_seconds"`
	RequestsPerSecond float64 `json:"requests_per_second" yaml:"requests_per_second"`
	Retries           int     `json:"retries" yaml:"retries"`
	UserAgent         string  `json:"user_agent" yaml:"user_agent"`
	CloudflareBypass  bool    `json:"cloudflare_bypass" yaml:"cloudflare_bypass"`
	// Dir is the mirror directory read by the dir fetcher.
	Dir string `json:"dir" yaml:"dir"`
}

func (c Config) timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// New creates the fetcher named by config.Kind.
func New(config Config, tel telemetry.API) (Fetcher, error) {
	switch config.Kind {
	case KIND_RESTY, "":
		return NewRestyFetcher(config, tel), nil
	case KIND_COLLY:
		return NewCollyFetcher(config, tel), nil
	case KIND_DIR:
		return NewDirFetcher(config.Dir, tel)
	}
	return nil, fmt.Errorf("unknown fetcher kind '%s'", config.Kind)
}
