package handlers

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/sessions"

	"catalog/internal/pipeline"
)

const (
	sessionName = "catalog_session"
	flashCtxKey = "flash"
)

// Flashes are the one-shot messages shown by the next rendered page.
type Flashes struct {
	Success []string `json:"success"`
	Error   []string `json:"error"`
}

// NewSessionStore builds the cookie store that carries flash messages.
func NewSessionStore(secret string, maxAge int, secure bool) *sessions.CookieStore {
	store := sessions.NewCookieStore([]byte(secret))
	store.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	}
	return store
}

// Flash consumes the pending flash messages of the session into the
// request context, so a message is shown exactly once.
func Flash(store sessions.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		session, err := store.Get(c.Request, sessionName)
		if err != nil {
			// a cookie signed with an old secret yields a fresh session
			log.Printf("[FLASH] session decode failed: %v", err)
		}
		if session == nil {
			session = sessions.NewSession(store, sessionName)
		}

		flashes := Flashes{Success: []string{}, Error: []string{}}
		for _, v := range session.Flashes("success") {
			if s, ok := v.(string); ok {
				flashes.Success = append(flashes.Success, s)
			}
		}
		for _, v := range session.Flashes("error") {
			if s, ok := v.(string); ok {
				flashes.Error = append(flashes.Error, s)
			}
		}
		if len(flashes.Success)+len(flashes.Error) > 0 {
			if err := session.Save(c.Request, c.Writer); err != nil {
				log.Printf("[FLASH] session save failed: %v", err)
			}
		}

		c.Set(flashCtxKey, flashes)
		c.Set(sessionName, session)
		c.Next()
	}
}

func flashesFrom(c *gin.Context) Flashes {
	if v, ok := c.Get(flashCtxKey); ok {
		if f, ok := v.(Flashes); ok {
			return f
		}
	}
	return Flashes{Success: []string{}, Error: []string{}}
}

// redirectWithFlash queues message for the next page and redirects.
func redirectWithFlash(c *gin.Context, kind, message, target string) {
	if v, ok := c.Get(sessionName); ok {
		if session, ok := v.(*sessions.Session); ok {
			session.AddFlash(message, kind)
			if err := session.Save(c.Request, c.Writer); err != nil {
				log.Printf("[FLASH] session save failed: %v", err)
			}
		}
	}
	c.Redirect(http.StatusFound, target)
}

func redirectWithOutcome(c *gin.Context, out pipeline.Outcome) {
	redirectWithFlash(c, out.FlashKey(), out.Message, out.RedirectTarget)
}
