package fetcher

import (
	"classutil-backend/internal/components/assert"
	"classutil-backend/internal/components/telemetry"
	"context"
	"fmt"

	cloudflarebp "github.com/DaRealFreak/cloudflare-bp-go"
	"github.com/go-resty/resty/v2"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/time/rate"
)

const report_resty_fetch = "resty.fetch"

type RestyFetcher struct {
	http *resty.Client
	tel  telemetry.API
}

func NewRestyFetcher(config Config, tel telemetry.API) RestyFetcher {
	assert.NotNil(tel)

	tel = telemetry.NewScopedAPI("fetcher", tel)

	httpClient := resty.New()
	if config.CloudflareBypass {
		httpClient.GetClient().Transport = cloudflarebp.AddCloudFlareByPass(httpClient.GetClient().Transport)
	}
	if config.UserAgent != "" {
		httpClient.SetHeader("user-agent", config.UserAgent)
	}
	if config.TimeoutSeconds > 0 {
		httpClient.SetTimeout(config.timeout())
	}
	if config.Retries > 0 {
		httpClient.SetRetryCount(config.Retries)
		httpClient.AddRetryCondition(func(res *resty.Response, err error) bool {
			return err != nil || res.StatusCode() >= 500
		})
	}

	if config.RequestsPerSecond > 0 {
		burst := int(config.RequestsPerSecond)
		if burst < 1 {
			burst = 1
		}
		// shared by every worker using this client
		rateLimiter := rate.NewLimiter(rate.Limit(config.RequestsPerSecond), burst)
		httpClient.OnBeforeRequest(func(_ *resty.Client, req *resty.Request) error {
			return rateLimiter.Wait(req.Context())
		})
	}

	telemetry.InstrumentResty(httpClient, tel)

	return RestyFetcher{
		http: httpClient,
		tel:  tel,
	}
}

func (f RestyFetcher) Fetch(ctx context.Context, url string) ([]byte, error) {
	ctx, span := tracer.Start(ctx, "RestyFetcher.Fetch", trace.WithAttributes(
		attribute.String("url", url),
	))
	defer span.End()

	res, err := f.http.R().
		SetContext(ctx).
		Get(url)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		f.tel.ReportWarning(report_resty_fetch, err, url)
		return nil, fmt.Errorf("get %s: %w", url, err)
	}
	span.SetAttributes(attribute.Int("status", res.StatusCode()))
	if !res.IsSuccess() {
		err := fmt.Errorf("%w: %s: %s", ErrBadStatus, url, res.Status())
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	return res.Body(), nil
}
