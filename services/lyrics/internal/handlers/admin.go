package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/example/mytype/internal/platform/api"
	"github.com/example/mytype/internal/platform/auth"
)

type adminLoginRequest struct {
	Password string `json:"password"`
}

type adminLoginData struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// AdminLogin handles POST /v1/admin/login. passwordHash is the bcrypt hash
// of the admin password; an empty hash disables the endpoint.
func AdminLogin(issuer auth.TokenIssuer, passwordHash string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if passwordHash == "" {
			api.ServiceUnavailable(w, "Admin access not configured")
			return
		}

		var req adminLoginRequest
		if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<20)).Decode(&req); err != nil {
			api.BadRequest(w, "invalid JSON")
			return
		}
		if req.Password == "" {
			api.BadRequest(w, "Password is required")
			return
		}

		if err := bcrypt.CompareHashAndPassword([]byte(passwordHash), []byte(req.Password)); err != nil {
			api.Unauthorized(w, "Invalid password")
			return
		}

		token, expiresAt, err := issuer.NewAdminToken(time.Time{})
		if err != nil {
			api.Internal(w)
			return
		}
		api.OK(w, adminLoginData{Token: token, ExpiresAt: expiresAt})
	}
}
