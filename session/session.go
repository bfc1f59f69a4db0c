package session

import (
	"encoding/gob"
	"net/http"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/memstore"
	"github.com/gin-gonic/gin"

	"go-monsoon/types"
)

const (
	cookieName = "monsoon_session"

	keyUser = "user"
	keyFix  = "browser_fix"
)

func init() {
	gob.Register(types.BrowserFix{})
}

// Middleware wires the in-memory cookie session store. Sessions live only in
// process memory, so a restart logs everyone out.
func Middleware(secret string, maxAgeSeconds int) gin.HandlerFunc {
	store := memstore.NewStore([]byte(secret))
	store.Options(sessions.Options{
		Path:     "/",
		MaxAge:   maxAgeSeconds,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	return sessions.Sessions(cookieName, store)
}

// CurrentUser returns the logged-in username for this request, if any.
func CurrentUser(c *gin.Context) (string, bool) {
	s := sessions.Default(c)
	v := s.Get(keyUser)
	name, ok := v.(string)
	return name, ok && name != ""
}

// Login starts a fresh session for username. Any state from a previous
// login on the same cookie is dropped first.
func Login(c *gin.Context, username string) error {
	s := sessions.Default(c)
	s.Clear()
	s.Set(keyUser, username)
	return s.Save()
}

// Logout wipes the session entirely, including any stored browser fix.
func Logout(c *gin.Context) error {
	s := sessions.Default(c)
	s.Clear()
	s.Options(sessions.Options{Path: "/", MaxAge: -1})
	return s.Save()
}

// SetBrowserFix remembers the device geolocation outcome for later reports
// in this session.
func SetBrowserFix(c *gin.Context, fix types.BrowserFix) error {
	s := sessions.Default(c)
	s.Set(keyFix, fix)
	return s.Save()
}

// BrowserFix returns the stored device geolocation outcome, if the page
// reported one this session.
func BrowserFix(c *gin.Context) (types.BrowserFix, bool) {
	s := sessions.Default(c)
	v := s.Get(keyFix)
	fix, ok := v.(types.BrowserFix)
	return fix, ok
}

// ClearBrowserFix forgets the stored device fix without touching the login.
func ClearBrowserFix(c *gin.Context) error {
	s := sessions.Default(c)
	s.Delete(keyFix)
	return s.Save()
}
