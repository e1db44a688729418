package auth

import (
	"net/http"

	"log/slog"

	"github.com/Lawrennzz/AgriMarket-sub003/internal/dependency"
	"github.com/go-chi/jwtauth/v5"
)

// Config contains the configuration for the session guard.
type Config struct {
	JWTSecret string `mapstructure:"jwt_secret"`
}

// Guard verifies admin JWTs on the report routes. Token issuance lives in
// the surrounding admin application; this service only gates access and
// resolves the acting admin.
type Guard struct {
	JwtAuth *jwtauth.JWTAuth
	admins  dependency.Admin
}

func New(c *Config, admins dependency.Admin) *Guard {
	return &Guard{
		JwtAuth: jwtauth.New("HS256", []byte(c.JWTSecret), nil),
		admins:  admins,
	}
}

// WithAuth wraps a handler with token verification and an admin existence
// check on the email claim.
func (g *Guard) WithAuth(next http.Handler) http.Handler {
	return jwtauth.Verifier(g.JwtAuth)(g.authenticator(next))
}

func (g *Guard) authenticator(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, claims, err := jwtauth.FromContext(r.Context())
		if err != nil || token == nil {
			http.Error(w, http.StatusText(http.StatusUnauthorized), http.StatusUnauthorized)
			return
		}
		email, _ := claims["email"].(string)
		if email == "" {
			http.Error(w, http.StatusText(http.StatusUnauthorized), http.StatusUnauthorized)
			return
		}
		ok, err := g.admins.AdminExists(r.Context(), email)
		if err != nil {
			slog.Default().ErrorContext(r.Context(), "admin lookup failed",
				slog.String("error", err.Error()),
			)
			http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
			return
		}
		if !ok {
			http.Error(w, http.StatusText(http.StatusForbidden), http.StatusForbidden)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// ActorEmail extracts the authenticated admin's email from the request
// context. Empty when the guard did not run.
func ActorEmail(r *http.Request) string {
	_, claims, err := jwtauth.FromContext(r.Context())
	if err != nil {
		return ""
	}
	email, _ := claims["email"].(string)
	return email
}
