package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Haleralex/ledgerhub/internal/adapters/http/common"
	"github.com/Haleralex/ledgerhub/internal/adapters/http/middleware"
	"github.com/Haleralex/ledgerhub/internal/application/dtos"
	"github.com/Haleralex/ledgerhub/internal/domain/auth"
	"github.com/Haleralex/ledgerhub/internal/domain/entities"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// ============================================
// Shared Test Helpers
// ============================================

// testAuthz builds a business-issuer authorization for the "acme" tenant.
func testAuthz() *auth.Authorization {
	business := entities.NewBusiness("acme", "acme.example.com", uuid.New(), entities.BusinessConfig{}, nil)
	return &auth.Authorization{
		Issuer:   entities.IssuerBusiness,
		UserID:   uuid.New(),
		Business: business,
	}
}

// withAuth injects the authorization the way the auth middleware would.
func withAuth(authz *auth.Authorization) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(middleware.AuthContextKey, authz)
		c.Next()
	}
}

func performJSON(router *gin.Engine, method, target string, body any) *httptest.ResponseRecorder {
	var reader *bytes.Buffer
	if body != nil {
		raw, _ := json.Marshal(body)
		reader = bytes.NewBuffer(raw)
	} else {
		reader = bytes.NewBuffer(nil)
	}

	req := httptest.NewRequest(method, target, reader)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func decodeEnvelope(t *testing.T, w *httptest.ResponseRecorder) common.ErrorEnvelope {
	t.Helper()

	var envelope common.ErrorEnvelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))
	return envelope
}

// ============================================
// Custom Validators
// ============================================

func TestValidateDecimal(t *testing.T) {
	type payload struct {
		Amount string `validate:"decimal"`
	}

	tests := []struct {
		amount string
		valid  bool
	}{
		{"100", true},
		{"100.50", true},
		{"0.001", true},
		{"-100.50", false},
		{"1,5", false},
		{"abc", false},
		{"", false},
		{"1.", false},
	}

	for _, tt := range tests {
		t.Run(tt.amount, func(t *testing.T) {
			err := validate.Struct(payload{Amount: tt.amount})
			if tt.valid {
				assert.NoError(t, err)
			} else {
				assert.Error(t, err)
			}
		})
	}
}

func TestValidateSignedDecimal(t *testing.T) {
	type payload struct {
		Amount string `validate:"signed_decimal"`
	}

	assert.NoError(t, validate.Struct(payload{Amount: "-80.00"}))
	assert.NoError(t, validate.Struct(payload{Amount: "80.00"}))
	assert.Error(t, validate.Struct(payload{Amount: "--80"}))
	assert.Error(t, validate.Struct(payload{Amount: "eighty"}))
}

// ============================================
// BindJSON
// ============================================

func TestBindJSON_MalformedBody(t *testing.T) {
	router := gin.New()
	router.POST("/echo", func(c *gin.Context) {
		var cmd dtos.CreateHoldCommand
		if !BindJSON(c, &cmd) {
			return
		}
		c.Status(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodPost, "/echo", bytes.NewBufferString("{not json"))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	envelope := decodeEnvelope(t, w)
	assert.Equal(t, "validation-error", envelope.Error)
}

func TestBindJSON_FieldErrors(t *testing.T) {
	router := gin.New()
	router.POST("/echo", func(c *gin.Context) {
		var cmd dtos.CreateHoldCommand
		if !BindJSON(c, &cmd) {
			return
		}
		c.Status(http.StatusOK)
	})

	// Missing wallet_id and a malformed amount.
	w := performJSON(router, http.MethodPost, "/echo", map[string]any{
		"currency":   "USD",
		"amount":     "not-a-number",
		"expires_at": "2026-09-01T00:00:00Z",
	})

	assert.Equal(t, http.StatusBadRequest, w.Code)
	envelope := decodeEnvelope(t, w)
	assert.Equal(t, "validation-error", envelope.Error)
	require.NotNil(t, envelope.Details)

	fields, ok := envelope.Details["fields"].([]any)
	require.True(t, ok)
	names := make(map[string]bool)
	for _, f := range fields {
		entry := f.(map[string]any)
		names[entry["field"].(string)] = true
	}
	assert.True(t, names["wallet_id"], "json field names expected in details")
	assert.True(t, names["amount"])
}

// ============================================
// requireAuth
// ============================================

func TestRequireAuth_Missing(t *testing.T) {
	router := gin.New()
	router.GET("/secure", func(c *gin.Context) {
		if _, ok := requireAuth(c); !ok {
			return
		}
		c.Status(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/secure", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	envelope := decodeEnvelope(t, w)
	assert.Equal(t, "authorization-error", envelope.Error)
}

// ============================================
// ParsePaging
// ============================================

func TestParsePaging(t *testing.T) {
	tests := []struct {
		name       string
		query      string
		wantOffset int
		wantLimit  int
	}{
		{"Defaults", "", 0, 20},
		{"Explicit", "?offset=40&limit=10", 40, 10},
		{"LimitClampedToMax", "?limit=500", 0, 100},
		{"ZeroLimitClampedUp", "?limit=0", 0, 1},
		{"NegativeOffsetReset", "?offset=-5", 0, 20},
		{"Garbage", "?offset=abc&limit=xyz", 0, 20},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got dtos.Paging
			router := gin.New()
			router.GET("/page", func(c *gin.Context) {
				got = ParsePaging(c, 100)
				c.Status(http.StatusOK)
			})

			req := httptest.NewRequest(http.MethodGet, "/page"+tt.query, nil)
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			assert.Equal(t, tt.wantOffset, got.Offset)
			assert.Equal(t, tt.wantLimit, got.Limit)
		})
	}
}
