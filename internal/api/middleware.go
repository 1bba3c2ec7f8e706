package api

import (
	"errors"
	"fmt"
	"net/http"
)

// errorHandler turns a panicking handler into a 500 and closes the
// connection, since the handler may have left the response half written.
func (s *MudApp) errorHandler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			v := recover()
			if v == nil {
				return
			}
			if v == http.ErrAbortHandler {
				panic(v)
			}

			err, ok := v.(error)
			if !ok {
				err = fmt.Errorf("%v", v)
			}
			s.log.Printf("panic serving %s %s: %v", r.Method, r.URL.Path, err)

			w.Header().Set("Connection", "close")
			s.writeError(w, NewInternalServerError(err))
		}()

		next.ServeHTTP(w, r)
	})
}

// sessionUserId returns the user id carried by the request's session cookie.
func (s *MudApp) sessionUserId(r *http.Request) (string, error) {
	tokenCookie, err := r.Cookie(tokenCookieKey)
	if err != nil {
		return "", err
	}

	return s.extractUserIdFromToken(tokenCookie.Value)
}

func (s *MudApp) authMiddleware(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userId, err := s.sessionUserId(r)
		if err != nil {
			if !errors.Is(err, http.ErrNoCookie) {
				s.log.Printf("rejecting session for %s %s: %v", r.Method, r.URL.Path, err)
				// the browser would keep sending it otherwise
				http.SetCookie(w, expiredJwtCookie())
			}
			s.writeError(w, NewUnauthorizedError())
			return
		}

		w.Header().Set("Cache-Control", "no-store, no-cache, must-revalidate, private")
		next(w, r.WithContext(WithUserId(r.Context(), userId)))
	}
}
