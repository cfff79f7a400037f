package api

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

type tokenFunc func(ctx context.Context) (string, error)

func (f tokenFunc) Token(ctx context.Context) (string, error) { return f(ctx) }

func staticToken(tok string) TokenProvider {
	return tokenFunc(func(context.Context) (string, error) { return tok, nil })
}

func TestTransportAttachesBearerToken(t *testing.T) {
	var gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	tr := NewTransport(srv.URL, staticToken("t1"), nil)
	require.NoError(t, tr.GetJSON(context.Background(), "/health", &struct{}{}))
	require.Equal(t, "Bearer t1", gotAuth)
}

func TestTransportUnauthenticatedWhenNoToken(t *testing.T) {
	var gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	tr := NewTransport(srv.URL, staticToken(""), nil)
	require.NoError(t, tr.GetJSON(context.Background(), "/health", &struct{}{}))
	require.Empty(t, gotAuth)
}

func TestTransportReadsTokenPerRequest(t *testing.T) {
	var seen []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = append(seen, r.Header.Get("Authorization"))
		w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	current := "t1"
	tr := NewTransport(srv.URL, tokenFunc(func(context.Context) (string, error) {
		return current, nil
	}), nil)

	ctx := context.Background()
	require.NoError(t, tr.GetJSON(ctx, "/a", nil))
	current = "" // logout mid-flight
	require.NoError(t, tr.GetJSON(ctx, "/b", nil))

	require.Equal(t, []string{"Bearer t1", ""}, seen)
}

func TestTransport401FiresHookOncePerResponse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"detail":"token expired"}`))
	}))
	defer srv.Close()

	fired := 0
	tr := NewTransport(srv.URL, staticToken("stale"), nil)
	tr.OnUnauthorized(func() { fired++ })

	err := tr.GetJSON(context.Background(), "/contents", nil)
	require.Error(t, err)
	require.ErrorIs(t, err, ErrUnauthorized)
	require.Equal(t, 1, fired, "one 401 response fires the hook exactly once")

	var apiErr *Error
	require.ErrorAs(t, err, &apiErr)
	require.Equal(t, "token expired", apiErr.Detail)

	// A second 401 fires the hook again: the policy is per response.
	err = tr.GetJSON(context.Background(), "/contents", nil)
	require.Error(t, err)
	require.Equal(t, 2, fired)
}

func TestDecodeJSONErrorDetailPreference(t *testing.T) {
	cases := []struct {
		name string
		body string
		want string
	}{
		{"detail field", `{"detail":"no such content"}`, "no such content"},
		{"message fallback", `{"message":"gone"}`, "gone"},
		{"no body", ``, http.StatusText(http.StatusNotFound)},
		{"non-json body", `<html>oops</html>`, http.StatusText(http.StatusNotFound)},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusNotFound)
				w.Write([]byte(tc.body))
			}))
			defer srv.Close()

			tr := NewTransport(srv.URL, nil, nil)
			err := tr.GetJSON(context.Background(), "/content/x", nil)

			var apiErr *Error
			require.ErrorAs(t, err, &apiErr)
			require.Equal(t, http.StatusNotFound, apiErr.Status)
			require.Equal(t, tc.want, apiErr.Detail)
		})
	}
}

func TestReason(t *testing.T) {
	require.Equal(t, "fallback", Reason(nil, "fallback"))
	require.Equal(t, "backend says no", Reason(&Error{Status: 400, Detail: "backend says no"}, "fallback"))
	require.Equal(t, "dial tcp: refused", Reason(errors.New("dial tcp: refused"), "fallback"))
}

func TestTransportNetworkError(t *testing.T) {
	tr := NewTransport("http://127.0.0.1:1", nil, nil)
	err := tr.GetJSON(context.Background(), "/health", nil)
	require.Error(t, err)

	var apiErr *Error
	require.False(t, errors.As(err, &apiErr), "transport failures are not backend errors")
}
