package fetcher

import (
	"classutil-backend/internal/components/assert"
	"classutil-backend/internal/components/telemetry"
	"context"
	"fmt"
	"time"

	"github.com/gocolly/colly/v2"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const report_colly_fetch = "colly.fetch"

// CollyFetcher fetches pages with a colly collector, every Fetch runs on a
// clone so concurrent calls do not share callbacks.
type CollyFetcher struct {
	collector *colly.Collector
	tel       telemetry.API
}

func NewCollyFetcher(config Config, tel telemetry.API) CollyFetcher {
	assert.NotNil(tel)

	tel = telemetry.NewScopedAPI("fetcher", tel)

	options := []colly.CollectorOption{
		colly.AllowURLRevisit(),
		colly.IgnoreRobotsTxt(),
	}
	if config.UserAgent != "" {
		options = append(options, colly.UserAgent(config.UserAgent))
	}
	collector := colly.NewCollector(options...)
	if config.TimeoutSeconds > 0 {
		collector.SetRequestTimeout(config.timeout())
	}
	if config.RequestsPerSecond > 0 {
		err := collector.Limit(&colly.LimitRule{
			DomainGlob:  "*",
			Parallelism: 1,
			Delay:       time.Duration(float64(time.Second) / config.RequestsPerSecond),
		})
		if err != nil {
			tel.ReportBroken(report_colly_fetch, fmt.Errorf("set limit rule: %w", err))
		}
	}

	return CollyFetcher{
		collector: collector,
		tel:       tel,
	}
}

func (f CollyFetcher) Fetch(ctx context.Context, url string) ([]byte, error) {
	ctx, span := tracer.Start(ctx, "CollyFetcher.Fetch", trace.WithAttributes(
		attribute.String("url", url),
	))
	defer span.End()

	c := f.collector.Clone()
	c.Context = ctx

	var body []byte
	var status int
	c.OnResponse(func(res *colly.Response) {
		status = res.StatusCode
		body = res.Body
	})
	c.OnError(func(res *colly.Response, _ error) {
		if res != nil {
			status = res.StatusCode
		}
	})

	f.tel.ReportDebug(report_colly_fetch, url)
	err := c.Visit(url)
	c.Wait()
	span.SetAttributes(attribute.Int("status", status))

	if status != 0 && (status < 200 || status >= 300) {
		err := fmt.Errorf("%w: %s: %d", ErrBadStatus, url, status)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		f.tel.ReportWarning(report_colly_fetch, err, url)
		return nil, fmt.Errorf("get %s: %w", url, err)
	}
	return body, nil
}
