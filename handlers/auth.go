package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"

	"go-monsoon/db"
	"go-monsoon/session"
	"go-monsoon/types"
)

// RegisterUser creates an account. Duplicate usernames come back as a 409
// with the message the form shows verbatim.
func RegisterUser(c *gin.Context, users *db.UserStore) {
	var req types.CredentialsRequest
	if err := c.ShouldBind(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "username and password are required"})
		return
	}

	err := users.Register(req.Username, req.Password)
	if errors.Is(err, db.ErrUserExists) {
		c.JSON(http.StatusConflict, gin.H{"error": "Username already exists"})
		return
	}
	if err != nil {
		log.Printf("Registration for %q failed: %v", req.Username, err)
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"message": "Registration successful. Please log in."})
}

// LoginUser verifies credentials and starts a session. Unknown users and
// wrong passwords get the same answer.
func LoginUser(c *gin.Context, users *db.UserStore) {
	var req types.CredentialsRequest
	if err := c.ShouldBind(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "username and password are required"})
		return
	}

	if !users.Verify(req.Username, req.Password) {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid username or password"})
		return
	}

	username := strings.TrimSpace(req.Username)
	if err := session.Login(c, username); err != nil {
		log.Printf("Could not start session for %q: %v", username, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not start session"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Logged in", "user": username})
}

// LogoutUser drops the whole session, stored browser fix included.
func LogoutUser(c *gin.Context) {
	if err := session.Logout(c); err != nil {
		log.Printf("Logout failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not end session"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Logged out"})
}
