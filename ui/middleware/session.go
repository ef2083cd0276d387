package middleware

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"brainmapp/internal/session"
)

// SessionCookie names the cookie carrying the dashboard session id.
const SessionCookie = "brainmapp_session"

const sessionKey = "brainmapp.session"

// EnsureSession is middleware that attaches the caller's dashboard session to
// the request, creating one when the cookie is absent or unknown.
func EnsureSession(store *session.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, _ := c.Cookie(SessionCookie)
		sess := store.GetOrCreate(id)
		if sess.ID != id {
			if id != "" {
				log.Printf("[EnsureSession] Unknown session %s, issued %s", id, sess.ID)
			}
			c.SetSameSite(http.SameSiteLaxMode)
			c.SetCookie(SessionCookie, sess.ID, 0, "/", "", false, true)
		}
		c.Set(sessionKey, sess)
		c.Next()
	}
}

// CurrentSession returns the session attached by EnsureSession.
func CurrentSession(c *gin.Context) *session.Session {
	return c.MustGet(sessionKey).(*session.Session)
}
