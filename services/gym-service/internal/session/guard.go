package session

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/md-rashed-zaman/gymdesk/libs/auth"
	"github.com/md-rashed-zaman/gymdesk/libs/httpx"
	"github.com/md-rashed-zaman/gymdesk/services/gym-service/internal/model"
	"github.com/md-rashed-zaman/gymdesk/services/gym-service/internal/storage"
)

var ErrUnauthorized = errors.New("not authorized")

// UnauthorizedMessage is the body message for every 401.
const UnauthorizedMessage = "Not authorized to access this route"

// Identity is the verified admin acting on a request. The zero value is
// never a valid identity.
type Identity struct {
	ID       string
	Username string
	Email    string
}

func (i Identity) Valid() bool { return i.ID != "" }

type AdminLookup interface {
	GetByID(ctx context.Context, id string) (model.Admin, error)
}

type Guard struct {
	secret string
	admins AdminLookup
}

func NewGuard(secret string, admins AdminLookup) *Guard {
	return &Guard{secret: secret, admins: admins}
}

// Verify checks the token and that the admin it names still exists.
// Infrastructure failures are returned as-is; everything else is ErrUnauthorized.
func (g *Guard) Verify(ctx context.Context, bearerToken string) (Identity, error) {
	if bearerToken == "" {
		return Identity{}, ErrUnauthorized
	}
	claims, err := auth.ParseAndVerifyHS256(bearerToken, g.secret)
	if err != nil || claims.Role != auth.RoleAdmin {
		return Identity{}, ErrUnauthorized
	}
	admin, err := g.admins.GetByID(ctx, claims.Sub)
	if err != nil {
		if storage.IsNotFound(err) {
			return Identity{}, ErrUnauthorized
		}
		return Identity{}, fmt.Errorf("load admin: %w", err)
	}
	return Identity{ID: admin.ID, Username: admin.Username, Email: admin.Email}, nil
}

// HandlerFunc is an HTTP handler that can only run with a verified admin.
type HandlerFunc func(w http.ResponseWriter, r *http.Request, admin Identity)

// Require verifies the Authorization header and hands the identity to next.
func (g *Guard) Require(next HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		admin, err := g.Verify(r.Context(), auth.BearerToken(r.Header.Get("Authorization")))
		if err != nil {
			if errors.Is(err, ErrUnauthorized) {
				httpx.WriteJSON(w, http.StatusUnauthorized, map[string]any{"success": false, "message": UnauthorizedMessage})
				return
			}
			httpx.WriteJSON(w, http.StatusInternalServerError, map[string]any{"success": false, "message": "Server error in authentication"})
			return
		}
		next(w, r, admin)
	}
}
