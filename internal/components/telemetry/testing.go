package telemetry

import (
	"strings"
	"sync"
)

// Report is a single call made against a TestAPI.
type Report struct {
	Kind   string
	Id     string
	Params []any
}

const (
	KindBroken  = "broken"
	KindWarning = "warning"
	KindDebug   = "debug"
	KindCount   = "count"
)

// TestAPI records every report so tests can assert on what a component
// considered broken.
type TestAPI struct {
	mutex   sync.Mutex
	reports []Report
}

func NewTestAPI() *TestAPI {
	return &TestAPI{}
}

func (t *TestAPI) record(kind, id string, params []any) {
	t.mutex.Lock()
	defer t.mutex.Unlock()
	t.reports = append(t.reports, Report{Kind: kind, Id: id, Params: params})
}

func (t *TestAPI) ReportBroken(id string, params ...any) {
	t.record(KindBroken, id, params)
}

func (t *TestAPI) ReportWarning(id string, params ...any) {
	t.record(KindWarning, id, params)
}

func (t *TestAPI) ReportDebug(msg string, params ...any) {
	t.record(KindDebug, msg, params)
}

func (t *TestAPI) ReportCount(id string, count int64) {
	t.record(KindCount, id, []any{count})
}

// Reports returns the recorded reports of the given kind whose id contains
// the given substring.
func (t *TestAPI) Reports(kind, id string) []Report {
	t.mutex.Lock()
	defer t.mutex.Unlock()

	var out []Report
	for _, r := range t.reports {
		if r.Kind == kind && strings.Contains(r.Id, id) {
			out = append(out, r)
		}
	}
	return out
}
