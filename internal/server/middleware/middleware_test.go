package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/joseph-ayodele/jobs-tracker/internal/common"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newEngine(mw ...gin.HandlerFunc) *gin.Engine {
	r := gin.New()
	r.Use(mw...)
	r.GET("/jobs", func(c *gin.Context) {
		owner, _ := OwnerFromContext(c)
		ctxOwner, _ := common.OwnerIDFromContext(c.Request.Context())
		c.JSON(http.StatusOK, gin.H{"owner": owner, "ctx": ctxOwner})
	})
	return r
}

func do(r http.Handler, req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestIdentity_RedirectsAnonymous(t *testing.T) {
	r := newEngine(Identity(HeaderIdentity{Header: "X-User-Id"}, "/"))

	w := do(r, httptest.NewRequest(http.MethodGet, "/jobs", nil))
	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/", w.Header().Get("Location"))
}

func TestIdentity_HeaderProvider(t *testing.T) {
	r := newEngine(Identity(HeaderIdentity{Header: "X-User-Id"}, "/"))

	req := httptest.NewRequest(http.MethodGet, "/jobs", nil)
	req.Header.Set("X-User-Id", "user_a")
	w := do(r, req)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"owner":"user_a","ctx":"user_a"}`, w.Body.String())
}

func TestTokenIdentity(t *testing.T) {
	p := TokenIdentity{Tokens: map[string]string{"tok1": "user_a"}}

	cases := map[string]struct {
		header string
		owner  string
		ok     bool
	}{
		"known token":    {header: "Bearer tok1", owner: "user_a", ok: true},
		"scheme casing":  {header: "bearer tok1", owner: "user_a", ok: true},
		"unknown token":  {header: "Bearer nope"},
		"missing scheme": {header: "tok1"},
		"basic auth":     {header: "Basic tok1"},
		"no header":      {},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			owner, ok := p.Identify(req)
			assert.Equal(t, tc.ok, ok)
			assert.Equal(t, tc.owner, owner)
		})
	}
}

func TestProviderFrom(t *testing.T) {
	assert.IsType(t, TokenIdentity{}, ProviderFrom(common.AuthConfig{Mode: "token"}))
	assert.Equal(t, HeaderIdentity{Header: "X-Auth"}, ProviderFrom(common.AuthConfig{Mode: "header", Header: "X-Auth"}))
}

func newLimiter(t *testing.T, limit int) (*gin.Engine, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr(), MaxRetries: -1})
	t.Cleanup(func() { _ = client.Close() })

	r := newEngine(
		Identity(HeaderIdentity{Header: "X-User-Id"}, "/"),
		NewRateLimiter(RateLimiterConfig{
			RedisClient: client,
			Limit:       limit,
			Window:      time.Minute,
			Logger:      zaptest.NewLogger(t),
		}),
	)
	return r, mr
}

func ownerRequest(owner string) *http.Request {
	req := httptest.NewRequest(http.MethodGet, "/jobs", nil)
	req.Header.Set("X-User-Id", owner)
	return req
}

func TestRateLimiter_BlocksAfterLimit(t *testing.T) {
	r, mr := newLimiter(t, 2)

	for i, want := range []string{"1", "0"} {
		w := do(r, ownerRequest("user_a"))
		require.Equal(t, http.StatusOK, w.Code, "request %d", i)
		assert.Equal(t, "2", w.Header().Get("X-RateLimit-Limit"))
		assert.Equal(t, want, w.Header().Get("X-RateLimit-Remaining"))
	}

	w := do(r, ownerRequest("user_a"))
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Equal(t, "0", w.Header().Get("X-RateLimit-Remaining"))

	// Other owners have their own window.
	assert.Equal(t, http.StatusOK, do(r, ownerRequest("user_b")).Code)

	mr.FastForward(time.Minute + time.Second)
	assert.Equal(t, http.StatusOK, do(r, ownerRequest("user_a")).Code)
}

func TestRateLimiter_FailsOpen(t *testing.T) {
	r, mr := newLimiter(t, 1)
	mr.Close()

	for i := 0; i < 3; i++ {
		assert.Equal(t, http.StatusOK, do(r, ownerRequest("user_a")).Code)
	}
}

func TestRequestID(t *testing.T) {
	r := gin.New()
	r.Use(RequestID(), Logger(zaptest.NewLogger(t)))
	r.GET("/", func(c *gin.Context) {
		c.String(http.StatusOK, common.RequestIDFromContext(c.Request.Context()))
	})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Request-Id", "abc")
	w := do(r, req)
	assert.Equal(t, "abc", w.Body.String())
	assert.Equal(t, "abc", w.Header().Get("X-Request-Id"))

	w = do(r, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.NotEmpty(t, w.Body.String())
	assert.Equal(t, w.Body.String(), w.Header().Get("X-Request-Id"))
}
