package middleware

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"strconv"
	"strings"

	"github.com/coreos/go-oidc/v3/oidc"

	"github.com/nlc-digital/landcom/pkg/handlers"
)

// Actor identifies the authenticated principal acting on a request.
// Role is carried as a raw string; domain packages validate it against
// their own role sets.
type Actor struct {
	Name string
	Role string
}

type actorKey struct{}

// ActorFrom extracts the request actor from the context.
func ActorFrom(ctx context.Context) (Actor, bool) {
	actor, ok := ctx.Value(actorKey{}).(Actor)
	return actor, ok
}

// WithActor returns a context carrying the given actor.
// Exposed for handler tests that bypass the middleware.
func WithActor(ctx context.Context, actor Actor) context.Context {
	return context.WithValue(ctx, actorKey{}, actor)
}

// AuthConfig holds identity provider settings. When disabled, the actor is
// resolved from the X-Actor-Name and X-Actor-Role request headers instead of
// a verified token.
type AuthConfig struct {
	Enabled   bool   `toml:"enabled"`
	Issuer    string `toml:"issuer"`
	ClientID  string `toml:"client_id"`
	RoleClaim string `toml:"role_claim"`
	NameClaim string `toml:"name_claim"`
}

// AuthEnv maps auth config fields to environment variable names for override injection.
type AuthEnv struct {
	Enabled   string
	Issuer    string
	ClientID  string
	RoleClaim string
	NameClaim string
}

// Finalize applies defaults and environment variable overrides.
func (c *AuthConfig) Finalize(env *AuthEnv) error {
	c.loadDefaults()
	if env != nil {
		c.loadEnv(env)
	}
	return c.validate()
}

// Merge overwrites fields from overlay. The boolean always applies; strings
// only apply when non-empty.
func (c *AuthConfig) Merge(overlay *AuthConfig) {
	c.Enabled = overlay.Enabled

	if overlay.Issuer != "" {
		c.Issuer = overlay.Issuer
	}
	if overlay.ClientID != "" {
		c.ClientID = overlay.ClientID
	}
	if overlay.RoleClaim != "" {
		c.RoleClaim = overlay.RoleClaim
	}
	if overlay.NameClaim != "" {
		c.NameClaim = overlay.NameClaim
	}
}

func (c *AuthConfig) loadDefaults() {
	if c.RoleClaim == "" {
		c.RoleClaim = "role"
	}
	if c.NameClaim == "" {
		c.NameClaim = "name"
	}
}

func (c *AuthConfig) loadEnv(env *AuthEnv) {
	if env.Enabled != "" {
		if v := os.Getenv(env.Enabled); v != "" {
			if enabled, err := strconv.ParseBool(v); err == nil {
				c.Enabled = enabled
			}
		}
	}
	if env.Issuer != "" {
		if v := os.Getenv(env.Issuer); v != "" {
			c.Issuer = v
		}
	}
	if env.ClientID != "" {
		if v := os.Getenv(env.ClientID); v != "" {
			c.ClientID = v
		}
	}
	if env.RoleClaim != "" {
		if v := os.Getenv(env.RoleClaim); v != "" {
			c.RoleClaim = v
		}
	}
	if env.NameClaim != "" {
		if v := os.Getenv(env.NameClaim); v != "" {
			c.NameClaim = v
		}
	}
}

func (c *AuthConfig) validate() error {
	if c.Enabled && c.Issuer == "" {
		return errors.New("auth issuer is required when auth is enabled")
	}
	if c.Enabled && c.ClientID == "" {
		return errors.New("auth client id is required when auth is enabled")
	}
	return nil
}

var errInvalidToken = errors.New("invalid or missing bearer token")

// Auth returns middleware that resolves the request actor.
//
// With auth enabled, requests carrying a bearer token have the token verified
// against the configured OIDC issuer and the actor extracted from its claims;
// a token that fails verification is rejected. With auth disabled, the actor
// is read from the X-Actor-Name and X-Actor-Role headers. Requests without
// credentials pass through with no actor; handlers that require one respond
// with 401 themselves.
func Auth(ctx context.Context, cfg AuthConfig, logger *slog.Logger) (func(http.Handler) http.Handler, error) {
	if !cfg.Enabled {
		return headerActor(), nil
	}

	provider, err := oidc.NewProvider(ctx, cfg.Issuer)
	if err != nil {
		return nil, err
	}

	verifier := provider.Verifier(&oidc.Config{ClientID: cfg.ClientID})

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw, ok := bearerToken(r)
			if !ok {
				next.ServeHTTP(w, r)
				return
			}

			token, err := verifier.Verify(r.Context(), raw)
			if err != nil {
				handlers.RespondError(w, logger, http.StatusUnauthorized, errInvalidToken)
				return
			}

			var claims map[string]any
			if err := token.Claims(&claims); err != nil {
				handlers.RespondError(w, logger, http.StatusUnauthorized, errInvalidToken)
				return
			}

			actor := Actor{
				Name: stringClaim(claims, cfg.NameClaim),
				Role: stringClaim(claims, cfg.RoleClaim),
			}

			next.ServeHTTP(w, r.WithContext(WithActor(r.Context(), actor)))
		})
	}, nil
}

func headerActor() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			role := r.Header.Get("X-Actor-Role")
			if role == "" {
				next.ServeHTTP(w, r)
				return
			}

			actor := Actor{
				Name: r.Header.Get("X-Actor-Name"),
				Role: role,
			}

			next.ServeHTTP(w, r.WithContext(WithActor(r.Context(), actor)))
		})
	}
}

func stringClaim(claims map[string]any, key string) string {
	if v, ok := claims[key].(string); ok {
		return v
	}
	return ""
}

func bearerToken(r *http.Request) (string, bool) {
	header := r.Header.Get("Authorization")
	token, ok := strings.CutPrefix(header, "Bearer ")
	if !ok || token == "" {
		return "", false
	}
	return token, true
}
