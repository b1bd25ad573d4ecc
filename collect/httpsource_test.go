package collect

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestHTTPSource(t *testing.T) {
	t.Run("sends paging parameters", func(t *testing.T) {
		var gotQuery map[string]string
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			gotQuery = map[string]string{}
			for k := range r.URL.Query() {
				gotQuery[k] = r.URL.Query().Get(k)
			}
			_, _ = w.Write([]byte(`[]`))
		}))
		defer srv.Close()

		source := NewHTTPSource(srv.URL, "secret-key", 0)

		payload, err := source.FetchPage(context.Background(), "seoul", 2, 100)
		require.NoError(t, err)
		require.Equal(t, []byte(`[]`), payload)

		require.Equal(t, "secret-key", gotQuery["serviceKey"])
		require.Equal(t, "seoul", gotQuery["region"])
		require.Equal(t, "2", gotQuery["pageNo"])
		require.Equal(t, "100", gotQuery["numOfRows"])
		require.Equal(t, "json", gotQuery["format"])
	})

	t.Run("nationwide call omits the region parameter", func(t *testing.T) {
		var hasRegion bool
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			hasRegion = r.URL.Query().Has("region")
			_, _ = w.Write([]byte(`[]`))
		}))
		defer srv.Close()

		source := NewHTTPSource(srv.URL, "", 0)

		_, err := source.FetchPage(context.Background(), "", 1, 100)
		require.NoError(t, err)
		require.False(t, hasRegion)
	})

	t.Run("non-200 status is an error", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusBadGateway)
		}))
		defer srv.Close()

		source := NewHTTPSource(srv.URL, "", 0)

		_, err := source.FetchPage(context.Background(), "seoul", 1, 100)
		require.Error(t, err)
		require.Contains(t, err.Error(), "502")
	})

	t.Run("context cancellation aborts the request", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			<-r.Context().Done()
		}))
		defer srv.Close()

		source := NewHTTPSource(srv.URL, "", 0)

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		_, err := source.FetchPage(ctx, "seoul", 1, 100)
		require.Error(t, err)
	})
}
