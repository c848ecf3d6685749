package web

import (
	"context"
	"net/http"
	"sync"

	"github.com/google/uuid"
)

const sessionCookie = "search_agent_session"

type sessionKey struct{}

// sessionMiddleware makes sure every request carries a session id, issuing a
// cookie on first contact.
func sessionMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := ""
		if c, err := r.Cookie(sessionCookie); err == nil {
			if _, err := uuid.Parse(c.Value); err == nil {
				id = c.Value
			}
		}
		if id == "" {
			id = uuid.NewString()
			http.SetCookie(w, &http.Cookie{
				Name:     sessionCookie,
				Value:    id,
				Path:     "/",
				HttpOnly: true,
				SameSite: http.SameSiteLaxMode,
			})
		}

		ctx := context.WithValue(r.Context(), sessionKey{}, id)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func sessionID(ctx context.Context) string {
	id, _ := ctx.Value(sessionKey{}).(string)
	return id
}

// sessionGuard allows one outstanding query per session.
type sessionGuard struct {
	mu       sync.Mutex
	inFlight map[string]struct{}
}

func newSessionGuard() *sessionGuard {
	return &sessionGuard{inFlight: make(map[string]struct{})}
}

func (g *sessionGuard) acquire(id string) bool {
	g.mu.Lock()
	defer g.mu.Unlock()

	if _, busy := g.inFlight[id]; busy {
		return false
	}
	g.inFlight[id] = struct{}{}
	return true
}

func (g *sessionGuard) release(id string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	delete(g.inFlight, id)
}
