package classutil

import (
	"classutil-backend/internal/components/assert"
	"classutil-backend/internal/components/telemetry"
	"classutil-backend/internal/fetcher"
	"context"
	"errors"
	"fmt"
	"net/url"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"
)

const (
	report_scrape_root          = "scrape.root"
	report_scrape_subject_fetch = "scrape.subject-fetch"
	report_scrape_subject_parse = "scrape.subject-parse"
	report_scrape_links         = "scrape.links"
	report_scrape_sessions      = "scrape.sessions"
)

var (
	tracer = otel.Tracer("classutil-backend/internal/scrapers/classutil")
	meter  = otel.Meter("classutil-backend/internal/scrapers/classutil")
)

type Options struct {
	RootUrl string
	// Campus is the index of the campus section on the root page.
	Campus int
	// Term is the link filter and the token removed from course codes.
	Term        string
	Concurrency int
	GroupBy     GroupingStrategy
	Splitter    BlockSplitter
}

type Scraper struct {
	rootUrl     *url.URL
	campus      int
	concurrency int
	groupBy     GroupingStrategy
	parser      Parser
	fetcher     fetcher.Fetcher
	tel         telemetry.API
}

func NewScraper(opts Options, f fetcher.Fetcher, tel telemetry.API) (Scraper, error) {
	assert.NotNil(f)
	assert.NotNil(tel)

	tel = telemetry.NewScopedAPI("classutil", tel)

	rootUrl, err := url.Parse(opts.RootUrl)
	if err != nil {
		return Scraper{}, fmt.Errorf("parse root url: %w", err)
	}
	if !rootUrl.IsAbs() {
		return Scraper{}, fmt.Errorf("root url '%s' is not absolute", opts.RootUrl)
	}
	if opts.Campus < 0 {
		return Scraper{}, fmt.Errorf("campus index %d is negative", opts.Campus)
	}

	concurrency := opts.Concurrency
	if concurrency <= 0 {
		concurrency = 1
	}
	groupBy := opts.GroupBy
	if groupBy == nil {
		groupBy = GroupByCourse{}
	}

	return Scraper{
		rootUrl:     rootUrl,
		campus:      opts.Campus,
		concurrency: concurrency,
		groupBy:     groupBy,
		parser:      NewParser(opts.Term, opts.Splitter, tel),
		fetcher:     f,
		tel:         tel,
	}, nil
}

// SubjectLinks fetches the root page and returns the term filtered subject
// links of the configured campus.
func (s Scraper) SubjectLinks(ctx context.Context) ([]string, error) {
	ctx, span := tracer.Start(ctx, "Scraper.SubjectLinks")
	defer span.End()

	root, err := s.fetcher.Fetch(ctx, s.rootUrl.String())
	if err != nil {
		s.tel.ReportBroken(report_scrape_root, err, s.rootUrl.String())
		span.SetStatus(codes.Error, err.Error())
		return nil, fmt.Errorf("%w: root page: %w", ErrFetchFailed, err)
	}

	campuses, err := PartitionCampuses(root)
	if err != nil {
		s.tel.ReportBroken(report_scrape_root, err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	if s.campus >= len(campuses) {
		err := fmt.Errorf(
			"%w: campus %d requested but the root page lists %d",
			ErrStructuralMismatch, s.campus, len(campuses),
		)
		s.tel.ReportBroken(report_scrape_root, err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	links, err := SubjectLinks(campuses[s.campus])
	if err != nil {
		s.tel.ReportBroken(report_scrape_root, err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	links = FilterLinks(links, s.parser.term)

	s.tel.ReportCount(report_scrape_links, int64(len(links)))
	span.SetAttributes(attribute.Int("links", len(links)))
	return links, nil
}

type subjectResult struct {
	fetched bool
	courses []Course
}

// Scrape runs the whole pipeline and returns the schedule of the configured
// campus and term. Subject pages are fetched by up to Concurrency workers but
// always added to the schedule in link order.
func (s Scraper) Scrape(ctx context.Context) (*Schedule, error) {
	ctx, span := tracer.Start(ctx, "Scraper.Scrape")
	defer span.End()

	links, err := s.SubjectLinks(ctx)
	if err != nil {
		return nil, err
	}

	results := make([]subjectResult, len(links))
	group := errgroup.Group{}
	group.SetLimit(s.concurrency)
	for i, link := range links {
		group.Go(func() error {
			results[i] = s.scrapeSubject(ctx, link)
			return nil
		})
	}
	group.Wait()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	schedule := NewSchedule(s.groupBy)
	failed := 0
	for _, res := range results {
		if !res.fetched {
			failed++
			continue
		}
		addCourses(schedule, res.courses)
	}
	if len(links) > 0 && failed == len(links) {
		err := fmt.Errorf("%w: all %d subject pages failed", ErrFetchFailed, failed)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	s.tel.ReportCount(report_scrape_sessions, int64(schedule.SessionCount()))
	sessionCounter, err := meter.Int64Counter("classutil.sessions")
	if err == nil {
		sessionCounter.Add(ctx, int64(schedule.SessionCount()))
	}
	span.SetAttributes(
		attribute.Int("keys", schedule.Len()),
		attribute.Int("failed_pages", failed),
	)
	return schedule, nil
}

func (s Scraper) scrapeSubject(ctx context.Context, link string) subjectResult {
	ctx, span := tracer.Start(ctx, "Scraper.scrapeSubject", trace.WithAttributes(
		attribute.String("link", link),
	))
	defer span.End()

	target, err := s.rootUrl.Parse(link)
	if err != nil {
		s.tel.ReportWarning(report_scrape_subject_fetch, err, link)
		return subjectResult{}
	}

	page, err := s.fetcher.Fetch(ctx, target.String())
	if err != nil {
		s.tel.ReportWarning(report_scrape_subject_fetch, err, target.String())
		span.SetStatus(codes.Error, err.Error())
		return subjectResult{}
	}

	courses, err := s.parser.ParseSubjectPage(page)
	if err != nil {
		if errors.Is(err, ErrStructuralMismatch) {
			s.tel.ReportBroken(report_scrape_subject_parse, err, target.String())
		} else {
			s.tel.ReportWarning(report_scrape_subject_parse, err, target.String())
		}
		span.SetStatus(codes.Error, err.Error())
		return subjectResult{fetched: true}
	}
	return subjectResult{fetched: true, courses: courses}
}
