package main

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"syscall"
	"testing"
	"time"

	"github.com/ambev-sales/sales-service/pkg/cloudevents"
	"github.com/ambev-sales/sales-service/pkg/kafka"
	"github.com/ambev-sales/sales-service/pkg/logging"
	"github.com/ambev-sales/sales-service/pkg/metrics"
	"github.com/ambev-sales/sales-service/pkg/tracing"

	"github.com/ambev-sales/sales-service/internal/application"
	"github.com/ambev-sales/sales-service/internal/infrastructure/cache"
)

type fakeTracerProvider struct {
	shutdownCalls int
}

func (f *fakeTracerProvider) Shutdown(ctx context.Context) error {
	f.shutdownCalls++
	return nil
}

type fakeProducer struct {
	closeCalls int
}

func (f *fakeProducer) PublishEvent(ctx context.Context, topic string, event *cloudevents.SaleCloudEvent) error {
	return nil
}

func (f *fakeProducer) Close() error {
	f.closeCalls++
	return nil
}

type fakeHTTPServer struct {
	addr          string
	started       chan struct{}
	stop          chan struct{}
	shutdownCalls int
}

func newFakeHTTPServer() *fakeHTTPServer {
	return &fakeHTTPServer{started: make(chan struct{}), stop: make(chan struct{})}
}

func (f *fakeHTTPServer) ListenAndServe() error {
	close(f.started)
	<-f.stop
	return http.ErrServerClosed
}

func (f *fakeHTTPServer) Shutdown(ctx context.Context) error {
	f.shutdownCalls++
	close(f.stop)
	return nil
}

func testConfig() *Config {
	cfg := defaultConfig()
	cfg.LogLevel = "error"
	return cfg
}

func TestRun_StartsAndShutsDown(t *testing.T) {
	tracer := &fakeTracerProvider{}
	producer := &fakeProducer{}
	server := newFakeHTTPServer()
	storeClosed := 0

	deps := appDependencies{
		initTracing: func(ctx context.Context, cfg *tracing.Config) (tracerProvider, error) {
			return tracer, nil
		},
		openStore: func(ctx context.Context, config *Config, m *metrics.Metrics, logger *logging.Logger) (*saleStore, error) {
			return &saleStore{
				ping: func(context.Context) error { return nil },
				close: func(context.Context) error {
					storeClosed++
					return nil
				},
			}, nil
		},
		newProducer: func(cfg *kafka.Config, m *metrics.Metrics, logger *logging.Logger) kafka.EventProducer {
			return producer
		},
		newHTTPServer: func(addr string, handler http.Handler) httpServer {
			server.addr = addr
			return server
		},
	}

	signalCh := make(chan os.Signal, 1)
	done := make(chan error, 1)
	go func() {
		done <- run(context.Background(), testConfig(), deps, signalCh)
	}()

	select {
	case <-server.started:
	case <-time.After(5 * time.Second):
		t.Fatalf("server was not started")
	}
	signalCh <- syscall.SIGTERM

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("run returned %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatalf("run did not return")
	}

	if server.addr != ":8080" {
		t.Fatalf("server addr = %q", server.addr)
	}
	if server.shutdownCalls != 1 {
		t.Fatalf("Shutdown calls = %d", server.shutdownCalls)
	}
	if producer.closeCalls != 1 || storeClosed != 1 || tracer.shutdownCalls != 1 {
		t.Fatalf("cleanup incomplete: producer=%d store=%d tracer=%d", producer.closeCalls, storeClosed, tracer.shutdownCalls)
	}
}

func TestRun_StoreFailure(t *testing.T) {
	deps := appDependencies{
		initTracing: func(ctx context.Context, cfg *tracing.Config) (tracerProvider, error) {
			return nil, errors.New("collector down")
		},
		openStore: func(ctx context.Context, config *Config, m *metrics.Metrics, logger *logging.Logger) (*saleStore, error) {
			return nil, errors.New("connection refused")
		},
	}

	err := run(context.Background(), testConfig(), deps, nil)
	if err == nil || !strings.Contains(err.Error(), "connection refused") {
		t.Fatalf("expected store error, got %v", err)
	}
}

func TestRun_CacheUnavailable(t *testing.T) {
	server := newFakeHTTPServer()
	cacheAttempts := 0

	cfg := testConfig()
	cfg.Redis.Enabled = true

	deps := appDependencies{
		initTracing: func(ctx context.Context, cfg *tracing.Config) (tracerProvider, error) {
			return nil, nil
		},
		openStore: func(ctx context.Context, config *Config, m *metrics.Metrics, logger *logging.Logger) (*saleStore, error) {
			return &saleStore{
				ping:  func(context.Context) error { return nil },
				close: func(context.Context) error { return nil },
			}, nil
		},
		newProducer: func(cfg *kafka.Config, m *metrics.Metrics, logger *logging.Logger) kafka.EventProducer {
			return &fakeProducer{}
		},
		newCache: func(ctx context.Context, cfg *cache.Config) (application.SaleCache, func() error, error) {
			cacheAttempts++
			return nil, nil, errors.New("redis down")
		},
		newHTTPServer: func(addr string, handler http.Handler) httpServer {
			return server
		},
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- run(ctx, cfg, deps, nil)
	}()

	<-server.started
	cancel()

	if err := <-done; err != nil {
		t.Fatalf("run returned %v", err)
	}
	if cacheAttempts != 1 {
		t.Fatalf("cache attempts = %d", cacheAttempts)
	}
}

func TestOpenStore_Unknown(t *testing.T) {
	cfg := testConfig()
	cfg.Store = "cassandra"

	if _, err := openStore(context.Background(), cfg, nil, logging.NewNop()); err == nil {
		t.Fatalf("expected error for unknown store")
	}
}

func TestNewRouter_OperationalEndpoints(t *testing.T) {
	m := metrics.New(metrics.DefaultConfig(serviceName))
	var readyErr error
	router := newRouter(nil, func(context.Context) error { return readyErr }, nil, m, logging.NewNop())

	tests := []struct {
		name       string
		path       string
		readyErr   error
		wantStatus int
	}{
		{name: "health", path: "/health", wantStatus: http.StatusOK},
		{name: "ready", path: "/ready", wantStatus: http.StatusOK},
		{name: "not ready", path: "/ready", readyErr: errors.New("db down"), wantStatus: http.StatusServiceUnavailable},
		{name: "metrics", path: "/metrics", wantStatus: http.StatusOK},
		{name: "unknown route", path: "/nope", wantStatus: http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			readyErr = tt.readyErr
			req := httptest.NewRequest(http.MethodGet, tt.path, nil)
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)
			if rec.Code != tt.wantStatus {
				t.Fatalf("status = %d body = %s", rec.Code, rec.Body.String())
			}
		})
	}
}
