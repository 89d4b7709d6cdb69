package commands

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/syahrullah26/dewaunitedstore/cmd/cli/internal/credentials"
	"github.com/syahrullah26/dewaunitedstore/internal/models"
)

const (
	testToken    = "7|storefront-token"
	testPassword = "rahasia123"
)

// storefront is a fake backend covering the endpoints the CLI uses.
type storefront struct {
	mu     sync.Mutex
	role   string
	tokens map[string]bool
	items  []models.CartItem
	calls  []string
}

func newStorefront(role string) *storefront {
	return &storefront{role: role, tokens: map[string]bool{}}
}

func (s *storefront) called(call string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, c := range s.calls {
		if c == call {
			return true
		}
	}
	return false
}

func (s *storefront) user() models.UserProfile {
	return models.UserProfile{ID: 42, Name: "Raka", Email: "raka@example.com", Role: s.role}
}

func (s *storefront) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.calls = append(s.calls, r.Method+" "+r.URL.Path)
	w.Header().Set("Content-Type", "application/json")

	authed := s.tokens[strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")]
	public := r.URL.Path == "/login" || r.URL.Path == "/register" || strings.HasPrefix(r.URL.Path, "/products")
	if !public && !authed {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = io.WriteString(w, `{"message":"Unauthenticated."}`)
		return
	}

	switch {
	case r.URL.Path == "/login":
		var req models.LoginRequest
		_ = json.NewDecoder(r.Body).Decode(&req)
		if req.Password != testPassword {
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = io.WriteString(w, `{"message":"Email atau password salah"}`)
			return
		}
		s.tokens[testToken] = true
		_ = json.NewEncoder(w).Encode(models.AuthResponse{User: s.user(), Token: testToken})

	case r.URL.Path == "/logout":
		delete(s.tokens, testToken)
		_, _ = io.WriteString(w, `{}`)

	case r.URL.Path == "/me":
		_ = json.NewEncoder(w).Encode(s.user())

	case r.URL.Path == "/address":
		_, _ = io.WriteString(w, `{"data":[{"id":3,"recipient_name":"Raka","phone":"0812","address_detail":"Jl. Merdeka 1","postal_code":"16111","regency":{"id":1,"name":"Bogor"}}]}`)

	case r.URL.Path == "/products/home-jersey-2025":
		_, _ = io.WriteString(w, `{"data":{"id":5,"name":"Home Jersey 2025","slug":"home-jersey-2025","price":"350000.00","stocks":[{"size":"M","stock":10}]}}`)

	case r.URL.Path == "/products":
		_, _ = io.WriteString(w, `{"data":[{"id":5,"name":"Home Jersey 2025","slug":"home-jersey-2025","category":"jersey","price":"350000.00"}]}`)

	case r.URL.Path == "/cart" && r.Method == http.MethodPost:
		var req models.AddToCartRequest
		_ = json.NewDecoder(r.Body).Decode(&req)
		s.items = append(s.items, models.CartItem{
			ID: int64(len(s.items) + 1), ProductID: req.ProductID, Name: "Home Jersey 2025",
			Size: req.Size, Price: 350000, Quantity: req.Quantity, Subtotal: 350000 * float64(req.Quantity),
		})
		w.WriteHeader(http.StatusCreated)
		_, _ = io.WriteString(w, `{}`)

	case r.URL.Path == "/cart":
		snap := models.CartSnapshot{Items: s.items}
		for _, it := range s.items {
			snap.Summary.TotalItems++
			snap.Summary.TotalQuantity += it.Quantity
			snap.Summary.TotalPrice += it.Subtotal
		}
		_ = json.NewEncoder(w).Encode(snap)

	case r.URL.Path == "/cart/clear":
		s.items = nil
		_, _ = io.WriteString(w, `{}`)

	default:
		w.WriteHeader(http.StatusNotFound)
	}
}

type harness struct {
	backend *storefront
	globals *Globals
	out     *bytes.Buffer
}

func newHarness(t *testing.T, role string) *harness {
	t.Helper()

	backend := newStorefront(role)
	srv := httptest.NewServer(backend)
	t.Cleanup(srv.Close)

	out := &bytes.Buffer{}
	return &harness{
		backend: backend,
		out:     out,
		globals: &Globals{
			APIBase:  srv.URL,
			StateDir: t.TempDir(),
			Timeout:  5 * time.Second,
			Out:      out,
		},
	}
}

// login runs the login command and resets the captured output.
func (h *harness) login(t *testing.T) {
	t.Helper()
	cmd := &LoginCmd{Email: "raka@example.com", Password: testPassword}
	require.NoError(t, cmd.Run(context.Background(), h.globals))
	h.out.Reset()
}

func (h *harness) storedToken(t *testing.T) (string, error) {
	t.Helper()
	store, err := credentials.NewStore(h.globals.StateDir)
	require.NoError(t, err)
	return store.Load()
}

func TestLoginCmd(t *testing.T) {
	t.Run("persists token", func(t *testing.T) {
		h := newHarness(t, models.RoleUser)

		cmd := &LoginCmd{Email: "raka@example.com", Password: testPassword}
		require.NoError(t, cmd.Run(context.Background(), h.globals))
		assert.Contains(t, h.out.String(), "Logged in as Raka <raka@example.com>")

		token, err := h.storedToken(t)
		require.NoError(t, err)
		assert.Equal(t, testToken, token)
	})

	t.Run("shows backend message on rejection", func(t *testing.T) {
		h := newHarness(t, models.RoleUser)

		cmd := &LoginCmd{Email: "raka@example.com", Password: "wrong"}
		err := cmd.Run(context.Background(), h.globals)
		require.Error(t, err)
		assert.Equal(t, "login failed: Email atau password salah", err.Error())

		_, err = h.storedToken(t)
		assert.ErrorIs(t, err, credentials.ErrTokenNotFound)
	})
}

func TestRegisterCmd_passwordMismatchNeverCallsBackend(t *testing.T) {
	h := newHarness(t, models.RoleUser)

	cmd := &RegisterCmd{
		Name: "Raka", Email: "raka@example.com", Phone: "0812",
		Password: testPassword, PasswordConfirm: "different",
	}
	err := cmd.Run(context.Background(), h.globals)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "registration failed")
	assert.False(t, h.backend.called("POST /register"))
}

func TestWhoamiCmd(t *testing.T) {
	h := newHarness(t, models.RoleUser)
	h.login(t)

	require.NoError(t, (&WhoamiCmd{}).Run(context.Background(), h.globals))
	assert.Contains(t, h.out.String(), "Name:  Raka")
	assert.Contains(t, h.out.String(), "Role:  user")
}

func TestWhoamiCmd_expiredTokenLogsOut(t *testing.T) {
	h := newHarness(t, models.RoleUser)
	h.login(t)

	// Server side revocation.
	h.backend.mu.Lock()
	delete(h.backend.tokens, testToken)
	h.backend.mu.Unlock()

	require.NoError(t, (&WhoamiCmd{}).Run(context.Background(), h.globals))
	assert.Contains(t, h.out.String(), "Not logged in.")

	_, err := h.storedToken(t)
	assert.ErrorIs(t, err, credentials.ErrTokenNotFound)
}

func TestLogoutCmd(t *testing.T) {
	h := newHarness(t, models.RoleUser)
	h.login(t)

	require.NoError(t, (&LogoutCmd{}).Run(context.Background(), h.globals))
	assert.Contains(t, h.out.String(), "Logged out.")
	assert.True(t, h.backend.called("POST /logout"))

	_, err := h.storedToken(t)
	assert.ErrorIs(t, err, credentials.ErrTokenNotFound)
}

func TestSessionCmd(t *testing.T) {
	t.Run("anonymous", func(t *testing.T) {
		h := newHarness(t, models.RoleUser)

		require.NoError(t, (&SessionCmd{}).Run(context.Background(), h.globals))
		assert.Contains(t, h.out.String(), "State:     anonymous")
	})

	t.Run("opaque token", func(t *testing.T) {
		h := newHarness(t, models.RoleUser)
		h.login(t)

		require.NoError(t, (&SessionCmd{}).Run(context.Background(), h.globals))
		assert.Contains(t, h.out.String(), "State:     authenticating")
		assert.Contains(t, h.out.String(), "Token:     opaque")
	})

	t.Run("jwt token shows expiry", func(t *testing.T) {
		h := newHarness(t, models.RoleUser)

		expires := time.Now().Add(time.Hour).Truncate(time.Second)
		token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
			Subject:   "42",
			ExpiresAt: jwt.NewNumericDate(expires),
		}).SignedString([]byte("secret"))
		require.NoError(t, err)

		store, err := credentials.NewStore(h.globals.StateDir)
		require.NoError(t, err)
		require.NoError(t, store.Save(token))

		require.NoError(t, (&SessionCmd{}).Run(context.Background(), h.globals))
		assert.Contains(t, h.out.String(), "Subject:   42")
		assert.Contains(t, h.out.String(), fmt.Sprintf("Expires:   %s (valid)", expires.Format(time.RFC3339)))
	})
}

func TestCartCmds(t *testing.T) {
	ctx := context.Background()

	t.Run("requires login", func(t *testing.T) {
		h := newHarness(t, models.RoleUser)

		err := (&CartShowCmd{}).Run(ctx, h.globals)
		require.ErrorIs(t, err, ErrNavigationBlocked)
		assert.False(t, h.backend.called("GET /cart"))
	})

	t.Run("add by slug, show and clear", func(t *testing.T) {
		h := newHarness(t, models.RoleUser)
		h.login(t)

		require.NoError(t, (&CartAddCmd{Product: "home-jersey-2025", Size: "M", Quantity: 2}).Run(ctx, h.globals))
		assert.Contains(t, h.out.String(), "2 item(s), total Rp 700.000")
		assert.True(t, h.backend.called("GET /products/home-jersey-2025"))

		h.out.Reset()
		require.NoError(t, (&CartShowCmd{}).Run(ctx, h.globals))
		assert.Contains(t, h.out.String(), "Home Jersey 2025")

		h.out.Reset()
		require.NoError(t, (&CartClearCmd{}).Run(ctx, h.globals))
		assert.Contains(t, h.out.String(), "Cart is empty.")
	})

	t.Run("unknown size", func(t *testing.T) {
		h := newHarness(t, models.RoleUser)
		h.login(t)

		err := (&CartAddCmd{Product: "home-jersey-2025", Size: "XXL", Quantity: 1}).Run(ctx, h.globals)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "has no size XXL")
		assert.False(t, h.backend.called("POST /cart"))
	})
}

func TestAddressListCmd(t *testing.T) {
	h := newHarness(t, models.RoleUser)
	h.login(t)

	require.NoError(t, (&AddressListCmd{}).Run(context.Background(), h.globals))
	assert.Contains(t, h.out.String(), "Jl. Merdeka 1")
	assert.Contains(t, h.out.String(), "Bogor")
}

func TestProductsCmds(t *testing.T) {
	h := newHarness(t, models.RoleUser)
	ctx := context.Background()

	require.NoError(t, (&ProductsListCmd{}).Run(ctx, h.globals))
	assert.Contains(t, h.out.String(), "home-jersey-2025")
	assert.Contains(t, h.out.String(), "Rp 350.000")

	h.out.Reset()
	require.NoError(t, (&ProductsShowCmd{Slug: "home-jersey-2025"}).Run(ctx, h.globals))
	assert.Contains(t, h.out.String(), "Stock: M:10")
}

func TestOpenCmd(t *testing.T) {
	ctx := context.Background()

	t.Run("user is sent home from admin", func(t *testing.T) {
		h := newHarness(t, models.RoleUser)
		h.login(t)

		require.NoError(t, (&OpenCmd{Path: "/admin"}).Run(ctx, h.globals))
		assert.Equal(t, "/admin: redirect to /\n", h.out.String())
	})

	t.Run("admin is allowed", func(t *testing.T) {
		h := newHarness(t, models.RoleAdmin)
		h.login(t)

		require.NoError(t, (&OpenCmd{Path: "/admin"}).Run(ctx, h.globals))
		assert.Equal(t, "/admin: allowed\n", h.out.String())
	})

	t.Run("anonymous is sent to login", func(t *testing.T) {
		h := newHarness(t, models.RoleUser)

		require.NoError(t, (&OpenCmd{Path: "/checkout"}).Run(ctx, h.globals))
		assert.Equal(t, "/checkout: redirect to /auth/login\n", h.out.String())
	})
}
