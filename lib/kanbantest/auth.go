// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package kanbantest

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/bureau-foundation/kanban/lib/kanban"
)

func newToken() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")
}

// issueCSRF mints a token and sets it as the csrftoken cookie.
func (b *Backend) issueCSRF(c *gin.Context) string {
	token := newToken()
	b.mu.Lock()
	b.csrfTokens[token] = true
	b.mu.Unlock()
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(csrfCookie, token, 365*24*3600, "/", "", false, false)
	return token
}

func (b *Backend) handleCSRF(c *gin.Context) {
	cookie, _ := c.Cookie(csrfCookie)
	b.mu.Lock()
	known := b.csrfTokens[cookie]
	b.mu.Unlock()
	if !known {
		b.issueCSRF(c)
	}
	c.JSON(http.StatusOK, gin.H{"detail": "CSRF cookie set"})
}

func identityOf(record *userRecord) kanban.Identity {
	return kanban.Identity{
		ID:          record.user.ID,
		Username:    record.user.Username,
		DisplayName: record.user.DisplayName,
		Role:        record.role,
	}
}

func (b *Backend) handleMe(c *gin.Context) {
	record, ok := b.sessionUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"detail": "Authentication credentials were not provided."})
		return
	}
	c.JSON(http.StatusOK, identityOf(record))
}

func (b *Backend) handleLogin(c *gin.Context) {
	var request struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "Malformed request."})
		return
	}
	if request.Username == "" || request.Password == "" {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "Username and password are required."})
		return
	}

	b.mu.Lock()
	var matched *userRecord
	for _, record := range b.users {
		if record.user.Username == request.Username && record.password == request.Password {
			matched = record
			break
		}
	}
	var sessionID string
	if matched != nil {
		sessionID = newToken()
		b.sessions[sessionID] = matched.user.ID
	}
	b.mu.Unlock()

	if matched == nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "Invalid username or password."})
		return
	}

	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(sessionCookie, sessionID, 14*24*3600, "/", "", false, true)
	// Login rotates the CSRF token.
	b.issueCSRF(c)
	c.JSON(http.StatusOK, identityOf(matched))
}

func (b *Backend) handleLogout(c *gin.Context) {
	if sessionID, err := c.Cookie(sessionCookie); err == nil {
		b.mu.Lock()
		delete(b.sessions, sessionID)
		b.mu.Unlock()
	}
	c.SetCookie(sessionCookie, "", -1, "/", "", false, true)
	c.Status(http.StatusNoContent)
}
