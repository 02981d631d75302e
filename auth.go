package main

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"

	"lg/fitcore-go-api/internal/store"
)

// placeholderHash stands in for the stored hash of an unknown username so
// every login attempt pays for one bcrypt comparison.
var placeholderHash, _ = bcrypt.GenerateFromPassword([]byte("placeholder"), bcrypt.DefaultCost)

// authenticate returns the user when password matches the stored hash.
// Unknown usernames and wrong passwords are indistinguishable to the caller.
func (h *Handler) authenticate(c *gin.Context, username, password string) (store.User, bool) {
	u, err := h.users.UserByUsername(c, username)
	known := err == nil

	hash := placeholderHash
	if known {
		hash = []byte(u.Password)
	}
	match := bcrypt.CompareHashAndPassword(hash, []byte(password)) == nil
	return u, known && match
}

// POST /api/login
func (h *Handler) login(c *gin.Context) {
	var body struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		apiError(c, http.StatusBadRequest, "invalid request body")
		return
	}

	u, ok := h.authenticate(c, body.Username, body.Password)
	if !ok {
		apiError(c, http.StatusUnauthorized, "invalid credentials")
		return
	}
	c.JSON(http.StatusOK, gin.H{"token": u.AuthToken, "user_id": u.ID})
}

// bearerToken extracts the token from an "Authorization: Bearer <token>" header.
func bearerToken(c *gin.Context) (string, bool) {
	token, found := strings.CutPrefix(c.GetHeader("Authorization"), "Bearer ")
	return token, found && token != ""
}

// authMiddleware resolves the bearer token to a user ID stored under
// "user_id" and rejects the request with 401 otherwise.
func (h *Handler) authMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := bearerToken(c)
		if !ok {
			apiError(c, http.StatusUnauthorized, "missing or invalid authorization header")
			c.Abort()
			return
		}
		userID, err := h.users.UserIDByToken(c, token)
		if err != nil {
			apiError(c, http.StatusUnauthorized, "invalid token")
			c.Abort()
			return
		}
		c.Set("user_id", userID)
		c.Next()
	}
}
