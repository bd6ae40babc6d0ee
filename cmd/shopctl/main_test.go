package main

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gooddeal/storefront/pkg/client"
)

type run struct {
	out     string
	err     error
	session string
}

func execute(t *testing.T, h http.HandlerFunc, st client.SessionState, stdin string, args ...string) run {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)

	path := filepath.Join(t.TempDir(), "session.yaml")
	if st != (client.SessionState{}) {
		require.NoError(t, saveSession(path, st))
	}

	var out bytes.Buffer
	root := newRootCmd()
	root.SetOut(&out)
	root.SetErr(&bytes.Buffer{})
	root.SetIn(strings.NewReader(stdin))
	root.SetArgs(append([]string{"--api", srv.URL, "--session", path}, args...))
	err := root.Execute()
	return run{out: out.String(), err: err, session: path}
}

func reply(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

var signedIn = client.SessionState{UserID: "u1", Role: "user", AccessToken: "acc", RefreshToken: "ref"}

func TestSignin_PersistsSession(t *testing.T) {
	r := execute(t, func(w http.ResponseWriter, r *http.Request) {
		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "0912345678", body["phone"])
		reply(w, http.StatusOK, map[string]string{
			"success": "Signed in", "accessToken": "a", "refreshToken": "r", "_id": "u9", "role": "admin",
		})
	}, client.SessionState{}, "", "signin", "-u", "0912345678", "-p", "Abc1@x")

	require.NoError(t, r.err)
	assert.Contains(t, r.out, "Signed in")

	st, err := loadSession(r.session)
	require.NoError(t, err)
	assert.Equal(t, client.SessionState{UserID: "u9", Role: "admin", AccessToken: "a", RefreshToken: "r"}, st)
}

func TestSignin_InvalidFieldsSendNothing(t *testing.T) {
	r := execute(t, func(w http.ResponseWriter, r *http.Request) {
		t.Error("no request expected")
	}, client.SessionState{}, "", "signin", "-u", "not-an-email", "-p", "weak")

	require.Error(t, r.err)
	assert.Contains(t, r.err.Error(), "username")
}

func TestSignout_RemovesSessionFile(t *testing.T) {
	r := execute(t, func(w http.ResponseWriter, r *http.Request) {
		reply(w, http.StatusOK, map[string]string{"success": "Signed out"})
	}, signedIn, "", "signout")

	require.NoError(t, r.err)
	st, err := loadSession(r.session)
	require.NoError(t, err)
	assert.Equal(t, client.SessionState{}, st)
}

// cancelServer answers the order read with o and counts update calls.
func cancelServer(t *testing.T, o map[string]any, updates *int, update http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == http.MethodGet:
			assert.Equal(t, "/api/order/by/user/o1/u1", r.URL.Path)
			reply(w, http.StatusOK, map[string]any{"success": "ok", "order": o})
		default:
			*updates++
			assert.Equal(t, http.MethodPut, r.Method)
			assert.Equal(t, "/api/order/update/by/user/o1/u1", r.URL.Path)
			update(w, r)
		}
	}
}

func pendingOrder(created time.Time) map[string]any {
	return map[string]any{"_id": "o1", "status": client.StatusPending, "createdAt": created.Format(time.RFC3339)}
}

func TestOrdersCancel(t *testing.T) {
	calls := 0
	handler := cancelServer(t, pendingOrder(time.Now()), &calls, func(w http.ResponseWriter, r *http.Request) {
		reply(w, http.StatusOK, map[string]any{"success": "ok", "order": map[string]string{"_id": "o1", "status": "4"}})
	})

	t.Run("declined", func(t *testing.T) {
		calls = 0
		r := execute(t, handler, signedIn, "n\n", "orders", "cancel", "o1")
		require.NoError(t, r.err)
		assert.Contains(t, r.out, "cancelled")
		assert.Zero(t, calls)
	})

	t.Run("confirmed with --yes", func(t *testing.T) {
		calls = 0
		r := execute(t, handler, signedIn, "", "orders", "cancel", "o1", "--yes")
		require.NoError(t, r.err)
		assert.Contains(t, r.out, "Order o1 cancelled")
		assert.Equal(t, 1, calls)
	})
}

func TestOrdersCancel_OutsideWindowSendsNothing(t *testing.T) {
	shipped := pendingOrder(time.Now())
	shipped["status"] = client.StatusShipped

	cases := []struct {
		name  string
		order map[string]any
	}{
		{"window closed", pendingOrder(time.Now().Add(-2 * time.Hour))},
		{"not pending", shipped},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			calls := 0
			h := cancelServer(t, tc.order, &calls, func(w http.ResponseWriter, r *http.Request) {})
			r := execute(t, h, signedIn, "y\n", "orders", "cancel", "o1")

			require.Error(t, r.err)
			assert.Equal(t, "order o1 can no longer be cancelled", r.err.Error())
			assert.NotContains(t, r.out, "Cancel order o1?")
			assert.Zero(t, calls)
		})
	}
}

func TestOrdersCancel_ServerMessage(t *testing.T) {
	calls := 0
	r := execute(t, cancelServer(t, pendingOrder(time.Now()), &calls, func(w http.ResponseWriter, r *http.Request) {
		reply(w, http.StatusUnprocessableEntity, map[string]string{"error": "order can no longer be cancelled"})
	}), signedIn, "y\n", "orders", "cancel", "o1")

	require.Error(t, r.err)
	assert.Equal(t, "order can no longer be cancelled", r.err.Error())
	assert.Equal(t, 1, calls)
}

func TestCategoriesList_AdminSeesAll(t *testing.T) {
	admin := signedIn
	admin.Role = "admin"
	r := execute(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/categories/u1", r.URL.Path)
		assert.Equal(t, "name", r.URL.Query().Get("sortBy"))
		reply(w, http.StatusOK, map[string]any{
			"success":    "ok",
			"filter":     map[string]any{"pageCurrent": 1, "pageCount": 1},
			"size":       1,
			"categories": []map[string]any{{"_id": "c1", "name": "Phones", "isDeleted": true}},
		})
	}, admin, "", "categories", "list")

	require.NoError(t, r.err)
	assert.Contains(t, r.out, "Phones")
	assert.Contains(t, r.out, "page 1 of 1, 1 total")
}

func TestCartList_Empty(t *testing.T) {
	r := execute(t, func(w http.ResponseWriter, r *http.Request) {
		reply(w, http.StatusOK, map[string]any{"success": "ok", "filter": map[string]any{}, "size": 0, "carts": []any{}})
	}, signedIn, "", "cart", "list")

	require.NoError(t, r.err)
	assert.Contains(t, r.out, "cart is empty")
}

func TestMenu_NotSignedIn(t *testing.T) {
	r := execute(t, func(w http.ResponseWriter, r *http.Request) {
		t.Error("no request expected")
	}, client.SessionState{}, "", "menu")

	require.Error(t, r.err)
	assert.Contains(t, r.err.Error(), "not signed in")
}
