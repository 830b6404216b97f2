package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/ambev-sales/sales-service/pkg/errors"
	"github.com/ambev-sales/sales-service/pkg/logging"
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	Setup(router, DefaultConfig("sales-test", quietLogger()))
	return router
}

func TestRequestAndCorrelationIDs(t *testing.T) {
	router := newRouter()
	var ctxCorrelation, ctxRequest string
	router.GET("/ping", func(c *gin.Context) {
		ctxCorrelation = logging.CorrelationIDFromContext(c.Request.Context())
		ctxRequest, _ = c.Request.Context().Value(logging.RequestIDKey).(string)
		c.Status(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set(HeaderCorrelationID, "corr-abc")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "corr-abc", rec.Header().Get(HeaderCorrelationID))
	assert.NotEmpty(t, rec.Header().Get(HeaderRequestID))
	assert.Equal(t, "corr-abc", ctxCorrelation)
	assert.Equal(t, rec.Header().Get(HeaderRequestID), ctxRequest)
}

func TestCORS(t *testing.T) {
	t.Run("any origin", func(t *testing.T) {
		router := newRouter()
		router.GET("/sales", func(c *gin.Context) { c.Status(http.StatusOK) })

		req := httptest.NewRequest(http.MethodOptions, "/sales", nil)
		req.Header.Set("Origin", "http://pos.example")
		req.Header.Set("Access-Control-Request-Method", http.MethodGet)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusNoContent, rec.Code)
		assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
	})

	t.Run("restricted origins", func(t *testing.T) {
		gin.SetMode(gin.TestMode)
		router := gin.New()
		router.Use(CORS("http://pos.example"))
		router.GET("/sales", func(c *gin.Context) { c.Status(http.StatusOK) })

		allowed := httptest.NewRequest(http.MethodGet, "/sales", nil)
		allowed.Header.Set("Origin", "http://pos.example")
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, allowed)
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "http://pos.example", rec.Header().Get("Access-Control-Allow-Origin"))

		denied := httptest.NewRequest(http.MethodGet, "/sales", nil)
		denied.Header.Set("Origin", "http://other.example")
		rec = httptest.NewRecorder()
		router.ServeHTTP(rec, denied)
		assert.Equal(t, http.StatusForbidden, rec.Code)
	})
}

func TestErrorResponder(t *testing.T) {
	router := newRouter()
	router.GET("/sales/:id", func(c *gin.Context) {
		NewErrorResponder(c, quietLogger()).RespondWithAppError(apperrors.ErrNotFoundWithID("sale", c.Param("id")))
	})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/sales/7", nil))

	require.Equal(t, http.StatusNotFound, rec.Code)
	var body APIErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, apperrors.CodeNotFound, body.Code)
	assert.Equal(t, "7", body.Details["id"])
	assert.Equal(t, "/sales/7", body.Path)
	assert.NotEmpty(t, body.RequestID)
}

func TestErrorHandlerRendersAttachedErrors(t *testing.T) {
	router := newRouter()
	router.GET("/boom", func(c *gin.Context) {
		_ = c.Error(errors.New("sale is already cancelled"))
	})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/boom", nil))

	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestRespondInternalError(t *testing.T) {
	router := newRouter()
	router.GET("/plain", func(c *gin.Context) {
		NewErrorResponder(c, quietLogger()).RespondInternalError(errors.New("disk full"))
	})
	router.GET("/typed", func(c *gin.Context) {
		NewErrorResponder(c, quietLogger()).RespondInternalError(apperrors.ErrConflict("sale is already cancelled"))
	})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/plain", nil))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/typed", nil))
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestRecovery(t *testing.T) {
	router := newRouter()
	router.GET("/panic", func(c *gin.Context) { panic("kaboom") })

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/panic", nil))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestContentType(t *testing.T) {
	router := newRouter()
	router.POST("/sales", func(c *gin.Context) { c.Status(http.StatusCreated) })

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/sales", strings.NewReader("saleNumber=1"))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnsupportedMediaType, rec.Code)
}

func TestReadinessCheck(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	ready := false
	router.GET("/ready", ReadinessCheck("sales", func(context.Context) error {
		if !ready {
			return errors.New("postgres unreachable")
		}
		return nil
	}))

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/ready", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	var body APIErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, apperrors.CodeServiceUnavailable, body.Code)
	assert.Equal(t, "postgres unreachable", body.Details["reason"])

	ready = true
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/ready", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestMoneyTag(t *testing.T) {
	v := GetValidator()

	type priced struct {
		UnitPrice decimal.Decimal `json:"unitPrice" validate:"money"`
	}

	tests := []struct {
		value string
		valid bool
	}{
		{"10", true},
		{"10.50", true},
		{"0", true},
		{"10.505", false},
		{"-1", false},
	}

	for _, tt := range tests {
		t.Run(tt.value, func(t *testing.T) {
			err := v.Struct(priced{UnitPrice: decimal.RequireFromString(tt.value)})
			assert.Equal(t, tt.valid, err == nil)
		})
	}
}

func TestBindAndValidateMoney(t *testing.T) {
	type itemRequest struct {
		UnitPrice decimal.Decimal `json:"unitPrice" binding:"money"`
	}

	tests := []struct {
		body     string
		rejected bool
	}{
		{`{"unitPrice":10.50}`, false},
		{`{"unitPrice":10.505}`, true},
		{`{"unitPrice":-1}`, true},
	}

	for _, tt := range tests {
		t.Run(tt.body, func(t *testing.T) {
			router := newRouter()
			var appErr *apperrors.AppError
			router.POST("/items", func(c *gin.Context) {
				var req itemRequest
				appErr = BindAndValidate(c, &req)
				c.Status(http.StatusNoContent)
			})

			req := httptest.NewRequest(http.MethodPost, "/items", strings.NewReader(tt.body))
			req.Header.Set("Content-Type", "application/json")
			router.ServeHTTP(httptest.NewRecorder(), req)

			if !tt.rejected {
				assert.Nil(t, appErr)
				return
			}
			require.NotNil(t, appErr)
			assert.Contains(t, appErr.Details, "unitPrice")
		})
	}
}

func TestSafeStringTag(t *testing.T) {
	v := GetValidator()
	assert.NoError(t, v.Var("Cerveja Brahma 350ml", "safe_string"))
	assert.NoError(t, v.Var("", "safe_string"))
	assert.Error(t, v.Var("bad\x07name", "safe_string"))
}

func TestBusinessMetricsNilIsNoop(t *testing.T) {
	var b *BusinessMetrics
	assert.NotPanics(t, func() {
		b.RecordSaleCreated(10)
		b.RecordSaleCancelled()
		b.RecordItemCancelled()
		b.RecordSaleDeleted()
		b.RecordPublishFailure("SaleCreatedEvent")
		b.RecordCacheLookup(true)
	})
}
