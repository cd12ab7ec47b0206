package robots_test

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/webkb/webkb/robots"
)

func TestGate_Allowed(t *testing.T) {
	t.Parallel()

	t.Run("enforces disallow rules for the configured agent", func(t *testing.T) {
		t.Parallel()

		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path != "/robots.txt" {
				http.NotFound(w, r)
				return
			}
			fmt.Fprint(w, "User-agent: *\nDisallow: /private/\n")
		}))
		defer srv.Close()

		g := robots.NewGate("webkb")
		ctx := context.Background()
		require.True(t, g.Allowed(ctx, srv.URL+"/docs/intro"))
		require.False(t, g.Allowed(ctx, srv.URL+"/private/key"))
	})

	t.Run("fetches robots.txt once per host", func(t *testing.T) {
		t.Parallel()

		var fetches atomic.Int32
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			fetches.Add(1)
			fmt.Fprint(w, "User-agent: *\nAllow: /\n")
		}))
		defer srv.Close()

		g := robots.NewGate("webkb")
		ctx := context.Background()
		for i := 0; i < 5; i++ {
			require.True(t, g.Allowed(ctx, fmt.Sprintf("%s/page-%d", srv.URL, i)))
		}
		require.Equal(t, int32(1), fetches.Load())
	})

	t.Run("missing robots.txt permits everything", func(t *testing.T) {
		t.Parallel()

		srv := httptest.NewServer(http.NotFoundHandler())
		defer srv.Close()

		g := robots.NewGate("webkb")
		require.True(t, g.Allowed(context.Background(), srv.URL+"/anything"))
	})

	t.Run("unreachable host permits everything", func(t *testing.T) {
		t.Parallel()

		srv := httptest.NewServer(http.NotFoundHandler())
		srv.Close() // connection refused from here on

		g := robots.NewGate("webkb")
		require.True(t, g.Allowed(context.Background(), srv.URL+"/anything"))
	})

	t.Run("sends the configured user agent", func(t *testing.T) {
		t.Parallel()

		var agent string
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			agent = r.Header.Get("User-Agent")
			fmt.Fprint(w, "User-agent: *\nAllow: /\n")
		}))
		defer srv.Close()

		g := robots.NewGate("webkb-test/1.0")
		g.Allowed(context.Background(), srv.URL+"/page")
		require.Equal(t, "webkb-test/1.0", agent)
	})
}
