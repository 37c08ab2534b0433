package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/Haleralex/ledgerhub/internal/adapters/http/common"
	"github.com/Haleralex/ledgerhub/internal/domain/entities"
	domainerrors "github.com/Haleralex/ledgerhub/internal/domain/errors"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// fakeBusinesses serves a single tenant by name.
type fakeBusinesses struct {
	business *entities.Business
}

func (f *fakeBusinesses) Save(context.Context, *entities.Business) error { return nil }

func (f *fakeBusinesses) FindByName(_ context.Context, name string) (*entities.Business, error) {
	if f.business != nil && f.business.Name() == name {
		return f.business, nil
	}
	return nil, domainerrors.ErrEntityNotFound
}

func (f *fakeBusinesses) FindByDomain(_ context.Context, domain string) (*entities.Business, error) {
	if f.business != nil && f.business.Domain() == domain {
		return f.business, nil
	}
	return nil, domainerrors.ErrEntityNotFound
}

func newRouter(handlers ...gin.HandlerFunc) *gin.Engine {
	r := gin.New()
	r.Use(handlers...)
	r.GET("/ping", func(c *gin.Context) {
		c.String(http.StatusOK, "pong")
	})
	return r
}

func perform(r *gin.Engine, req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestRequestID_Generated(t *testing.T) {
	r := newRouter(RequestID())

	w := perform(r, httptest.NewRequest(http.MethodGet, "/ping", nil))

	id := w.Header().Get(common.RequestIDKey)
	assert.NotEmpty(t, id)
	_, err := uuid.Parse(id)
	assert.NoError(t, err)
}

func TestRequestID_ClientSupplied(t *testing.T) {
	r := newRouter(RequestID())

	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set(common.RequestIDKey, "client-id-42")
	w := perform(r, req)

	assert.Equal(t, "client-id-42", w.Header().Get(common.RequestIDKey))
}
