package telemetry

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-resty/resty/v2"
	"github.com/stretchr/testify/require"
)

func TestScopedAPI(t *testing.T) {
	inner := NewTestAPI()
	scoped := NewScopedAPI("classutil", inner)

	scoped.ReportBroken("subject-page.parse", "x")
	scoped.ReportWarning("identity.extract")
	scoped.ReportDebug("dropped row")
	scoped.ReportCount("sessions", 4)

	broken := inner.Reports(KindBroken, "")
	require.Len(t, broken, 1)
	require.Equal(t, "classutil: subject-page.parse", broken[0].Id)
	require.Equal(t, []any{"x"}, broken[0].Params)

	require.Len(t, inner.Reports(KindWarning, "classutil: identity.extract"), 1)
	require.Len(t, inner.Reports(KindDebug, "dropped row"), 1)

	counts := inner.Reports(KindCount, "sessions")
	require.Len(t, counts, 1)
	require.Equal(t, []any{int64(4)}, counts[0].Params)
}

func TestInstrumentResty(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/missing" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		w.Write([]byte("ok"))
	}))
	defer srv.Close()

	tel := NewTestAPI()
	client := resty.New()
	InstrumentResty(client, tel)

	_, err := client.R().SetContext(context.Background()).Get(srv.URL + "/")
	require.NoError(t, err)
	_, err = client.R().SetContext(context.Background()).Get(srv.URL + "/missing")
	require.NoError(t, err)

	require.Len(t, tel.Reports(KindDebug, report_resty_request), 2)
	require.Len(t, tel.Reports(KindDebug, report_resty_response), 1)
	require.Len(t, tel.Reports(KindWarning, report_resty_response), 1)
}

func TestSetupWithoutExporters(t *testing.T) {
	tel, err := Setup(context.Background(), "test:telemetry", Config{})
	require.NoError(t, err)
	require.Nil(t, tel.TracerProvider)
	require.Nil(t, tel.MeterProvider)
	require.NoError(t, tel.Shutdown(context.Background()))
}
