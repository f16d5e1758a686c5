package telemetry

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"

	"github.com/go-chi/chi"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

var _ = Describe("Telemetry", func() {
	It("labels requests by route pattern", func() {
		router := chi.NewRouter()
		router.Use(HTTPMetricsMiddleware)
		router.Get("/projects/{id}", func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusForbidden)
		})

		counter := httpRequestsTotal.WithLabelValues(http.MethodGet, "/projects/{id}", "403")
		before := testutil.ToFloat64(counter)

		for _, id := range []string{"a", "b"} {
			router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/projects/"+id, nil))
		}
		Expect(testutil.ToFloat64(counter) - before).To(Equal(2.0))
	})

	It("counts implicit 200s", func() {
		router := chi.NewRouter()
		router.Use(HTTPMetricsMiddleware)
		router.Get("/ping", func(w http.ResponseWriter, _ *http.Request) {
			_, _ = w.Write([]byte("ok"))
		})

		counter := httpRequestsTotal.WithLabelValues(http.MethodGet, "/ping", "200")
		before := testutil.ToFloat64(counter)
		router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/ping", nil))
		Expect(testutil.ToFloat64(counter) - before).To(Equal(1.0))
	})

	It("tracks domain counters", func() {
		before := testutil.ToFloat64(grantRejections)
		ObserveGrantRejection()
		Expect(testutil.ToFloat64(grantRejections) - before).To(Equal(1.0))

		step := cascadeFailures.WithLabelValues("pull_from_users")
		before = testutil.ToFloat64(step)
		ObserveCascadeFailure("pull_from_users")
		Expect(testutil.ToFloat64(step) - before).To(Equal(1.0))

		rejected := loginAttempts.WithLabelValues("rejected")
		before = testutil.ToFloat64(rejected)
		ObserveLogin("rejected")
		Expect(testutil.ToFloat64(rejected) - before).To(Equal(1.0))
	})

	It("returns a no-op shutdown when tracing is disabled", func() {
		shutdown, err := InitTracing(context.Background(), slog.New(slog.NewTextHandler(io.Discard, nil)), TracingOptions{})
		Expect(err).NotTo(HaveOccurred())
		Expect(shutdown(context.Background())).To(Succeed())
	})
})
