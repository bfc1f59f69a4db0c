package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"go-monsoon/session"
)

// LoginPage renders the login form. Already logged-in visitors go straight
// to the report form.
func LoginPage(c *gin.Context) {
	if _, ok := session.CurrentUser(c); ok {
		c.Redirect(http.StatusFound, "/")
		return
	}
	c.HTML(http.StatusOK, "login.html", gin.H{})
}

// RegisterPage renders the account creation form.
func RegisterPage(c *gin.Context) {
	c.HTML(http.StatusOK, "register.html", gin.H{})
}

// ReportPage renders the report form for the logged-in user.
func ReportPage(c *gin.Context) {
	user, _ := session.CurrentUser(c)
	c.HTML(http.StatusOK, "report.html", gin.H{"User": user})
}

// RequirePage guards HTML pages: anonymous visitors are redirected to the
// login form.
func RequirePage(c *gin.Context) {
	if _, ok := session.CurrentUser(c); !ok {
		c.Redirect(http.StatusFound, "/login")
		c.Abort()
		return
	}
	c.Next()
}

// RequireAPI guards JSON endpoints: anonymous callers get a 401.
func RequireAPI(c *gin.Context) {
	if _, ok := session.CurrentUser(c); !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "login required"})
		c.Abort()
		return
	}
	c.Next()
}
