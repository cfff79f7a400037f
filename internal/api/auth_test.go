package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestAuthLoginSendsFormEncodedCredentials(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/users/login", r.URL.Path)
		require.Contains(t, r.Header.Get("Content-Type"), "application/x-www-form-urlencoded")
		require.NoError(t, r.ParseForm())
		require.Equal(t, "demo", r.PostForm.Get("username"))
		require.Equal(t, "demo1234", r.PostForm.Get("password"))

		json.NewEncoder(w).Encode(map[string]string{"access_token": "t1", "token_type": "bearer"})
	}))
	defer srv.Close()

	auth := NewAuth(NewTransport(srv.URL, nil, nil))
	token, err := auth.Login(context.Background(), "demo", "demo1234")
	require.NoError(t, err)
	require.Equal(t, "t1", token)
}

func TestAuthLoginRejected(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		json.NewEncoder(w).Encode(map[string]string{"detail": "Invalid username or password"})
	}))
	defer srv.Close()

	auth := NewAuth(NewTransport(srv.URL, nil, nil))
	_, err := auth.Login(context.Background(), "demo", "wrong")
	require.Error(t, err)

	var apiErr *Error
	require.ErrorAs(t, err, &apiErr)
	require.Equal(t, "Invalid username or password", apiErr.Detail)
}

func TestAuthRegisterWithUserObject(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/users/register", r.URL.Path)
		require.Contains(t, r.Header.Get("Content-Type"), "application/json")

		var req map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		require.Equal(t, "demo", req["username"])
		require.Equal(t, "d@x.com", req["email"])

		w.Write([]byte(`{"access_token":"t2","user":{"user_id":"u2","username":"demo","email":"d@x.com"}}`))
	}))
	defer srv.Close()

	auth := NewAuth(NewTransport(srv.URL, nil, nil))
	res, err := auth.Register(context.Background(), "demo", "d@x.com", "demo1234")
	require.NoError(t, err)
	require.Equal(t, "t2", res.Token)
	require.NotNil(t, res.User)
	require.Equal(t, "u2", res.User.ID, "user_id is read when id is absent")
}

func TestAuthRegisterWithoutUserObject(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"access_token":"t3","token_type":"bearer"}`))
	}))
	defer srv.Close()

	auth := NewAuth(NewTransport(srv.URL, nil, nil))
	res, err := auth.Register(context.Background(), "demo", "d@x.com", "demo1234")
	require.NoError(t, err)
	require.Equal(t, "t3", res.Token)
	require.Nil(t, res.User)
}

func TestAuthProfileIDFieldFallback(t *testing.T) {
	cases := []struct {
		name string
		body string
		want string
	}{
		{"id present", `{"id":"u1","username":"demo","email":"d@x.com"}`, "u1"},
		{"user_id fallback", `{"user_id":"u1","username":"demo","email":"d@x.com"}`, "u1"},
		{"id wins over user_id", `{"id":"a","user_id":"b","username":"demo"}`, "a"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				require.Equal(t, "/users/profile", r.URL.Path)
				w.Write([]byte(tc.body))
			}))
			defer srv.Close()

			auth := NewAuth(NewTransport(srv.URL, nil, nil))
			u, err := auth.Profile(context.Background())
			require.NoError(t, err)
			require.Equal(t, tc.want, u.ID)
			require.Equal(t, "demo", u.Username)
		})
	}
}
