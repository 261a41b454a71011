package http

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/prashantkr001/catalog-go/internal/api"
	"github.com/prashantkr001/catalog-go/internal/item"
)

// TestURIPatternKeepsRouteParams ensures resolving the route pattern from a
// middleware does not consume the live route context: parameterised routes
// registered below the middleware must still match and see their URL params.
func TestURIPatternKeepsRouteParams(t *testing.T) {
	requirer := require.New(t)
	asserter := assert.New(t)

	router := chi.NewRouter()
	uriPattern := ""
	router.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			uriPattern = chiURIPattern(router, r)
			next.ServeHTTP(w, r)
		})
	})
	router.Route("/items", func(r chi.Router) {
		r.Get("/{itemID}", func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(chi.URLParam(r, itemIDParam)))
		})
	})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/items/abc", nil))

	requirer.Equal(http.StatusOK, rec.Code)
	asserter.Equal("abc", rec.Body.String())
	asserter.Equal("/items/{itemID}", uriPattern)
}

func TestNewAppliesServerTimeouts(t *testing.T) {
	requirer := require.New(t)
	asserter := assert.New(t)

	itemSvc, err := item.NewService(item.NewMemoryPersistentStore(false))
	requirer.NoError(err)

	cfg := &Config{
		ReadHeaderTimeout: 1 * time.Second,
		ReadTimeout:       2 * time.Second,
		WriteTimeout:      3 * time.Second,
		IdleTimeout:       4 * time.Second,
	}
	ht := New(api.NewService(itemSvc), cfg)

	asserter.Equal(cfg.ReadHeaderTimeout, ht.server.ReadHeaderTimeout)
	asserter.Equal(cfg.ReadTimeout, ht.server.ReadTimeout)
	asserter.Equal(cfg.WriteTimeout, ht.server.WriteTimeout)
	asserter.Equal(cfg.IdleTimeout, ht.server.IdleTimeout)
}
