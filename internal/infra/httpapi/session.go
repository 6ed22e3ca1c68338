package httpapi

import (
	"context"
	"net/http"

	"github.com/gorilla/securecookie"
	"github.com/gorilla/sessions"

	"pota_dashboard/internal/domain/user"
)

// sessionName is the fixed key under which the authenticated-user
// record is persisted between requests. Absence means logged out.
const sessionName = "pota_user"

type contextKey string

const userContextKey contextKey = "current_user"

func newSessionStore(secret string) *sessions.CookieStore {
	key := []byte(secret)
	if len(key) == 0 {
		// No configured secret: sessions survive only as long as the
		// process, same as the rest of the in-memory state.
		key = securecookie.GenerateRandomKey(32)
	}
	store := sessions.NewCookieStore(key)
	store.Options = &sessions.Options{
		Path:     "/",
		HttpOnly: true,
		MaxAge:   7 * 24 * 60 * 60,
	}
	return store
}

// requireAuth rehydrates the session user and injects it into the
// request context. Requests without a valid session get a 401.
func (s *Server) requireAuth(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		session, _ := s.sessions.Get(r, sessionName)

		userID, ok := session.Values["user_id"].(string)
		if !ok || userID == "" {
			writeError(w, http.StatusUnauthorized, "not logged in")
			return
		}

		u, err := s.userRepo.GetByID(r.Context(), userID)
		if err != nil {
			// Stale cookie from a previous process; treat as logged out.
			writeError(w, http.StatusUnauthorized, "not logged in")
			return
		}

		ctx := context.WithValue(r.Context(), userContextKey, u)
		next(w, r.WithContext(ctx))
	}
}

// requireTeacher gates teacher-only actions.
func (s *Server) requireTeacher(next http.HandlerFunc) http.HandlerFunc {
	return s.requireAuth(func(w http.ResponseWriter, r *http.Request) {
		if !currentUser(r).IsTeacher() {
			writeError(w, http.StatusForbidden, "teacher role required")
			return
		}
		next(w, r)
	})
}

func currentUser(r *http.Request) *user.User {
	u, _ := r.Context().Value(userContextKey).(*user.User)
	return u
}
