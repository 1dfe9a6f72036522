package httpclient

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestGetJSON(t *testing.T) {
	t.Parallel()

	client := New(5*time.Second, zap.NewNop())

	t.Run("decodes the response and sends query params", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			require.Equal(t, "42", r.URL.Query().Get("chainId"))
			_, _ = w.Write([]byte(`{"value":"ok"}`))
		}))
		defer srv.Close()

		var out struct {
			Value string `json:"value"`
		}
		err := client.GetJSON(context.Background(), srv.URL, map[string]string{"chainId": "42"}, &out)
		require.NoError(t, err)
		require.Equal(t, "ok", out.Value)
	})

	t.Run("retries server errors", func(t *testing.T) {
		var calls int32
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if atomic.AddInt32(&calls, 1) == 1 {
				w.WriteHeader(http.StatusInternalServerError)
				return
			}
			_, _ = w.Write([]byte(`{}`))
		}))
		defer srv.Close()

		var out struct{}
		err := client.GetJSON(context.Background(), srv.URL, nil, &out)
		require.NoError(t, err)
		require.Equal(t, int32(2), atomic.LoadInt32(&calls))
	})

	t.Run("client errors are not retried", func(t *testing.T) {
		var calls int32
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			atomic.AddInt32(&calls, 1)
			w.WriteHeader(http.StatusNotFound)
		}))
		defer srv.Close()

		var out struct{}
		err := client.GetJSON(context.Background(), srv.URL, nil, &out)
		require.Error(t, err)
		require.Equal(t, int32(1), atomic.LoadInt32(&calls))
	})

	t.Run("invalid payload fails after a successful fetch", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`not json`))
		}))
		defer srv.Close()

		var out struct{}
		err := client.GetJSON(context.Background(), srv.URL, nil, &out)
		require.Error(t, err)
	})

	t.Run("bad url is rejected", func(t *testing.T) {
		var out struct{}
		err := client.GetJSON(context.Background(), "http://\x7f", nil, &out)
		require.Error(t, err)
	})
}
