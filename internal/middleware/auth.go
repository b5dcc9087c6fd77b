package middleware

import (
	"encoding/base64" // Basic credential decoding
	"net/http"        // HTTP status codes
	"strings"         // Header parsing

	"github.com/DinoSarlija/StockInformer/internal/domain" // User lookups for the Basic path
	"github.com/DinoSarlija/StockInformer/internal/utils"  // JWT codec and password check

	"github.com/gin-gonic/gin"   // Gin web framework
	"github.com/sirupsen/logrus" // Operator-facing diagnostics
	"gorm.io/gorm"               // GORM ORM library
)

// Context keys set by the gate on success.
const (
	CtxUserKey   = "currentUser" // Resolved identity, password scrubbed
	CtxUserIDKey = "userID"      // Resolved user id
)

// AuthMiddleware is the dual-scheme authentication gate. It parses the
// Authorization header, dispatches to Bearer (JWT) or Basic (stored
// credentials) verification, and attaches the resolved identity to the
// request context. Every rejection is a 401 with a generic message; the
// specific failure goes to the log only.
func AuthMiddleware(db *gorm.DB, secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization") // Get Authorization header
		if authHeader == "" {
			reject(c, "missing Authorization header")
			return
		}

		fields := strings.Fields(authHeader) // Split scheme from payload
		if len(fields) < 2 {
			reject(c, "malformed Authorization header")
			return
		}

		switch fields[0] {
		case "Bearer":
			bearerAuth(c, fields[1], secret)
		case "Basic":
			basicAuth(c, db, fields[1])
		default:
			reject(c, "unknown authentication scheme: "+fields[0])
		}
	}
}

// bearerAuth verifies a JWT and trusts the embedded claims as the identity.
// Tokens are short-lived, so there is no fresh store lookup on this path.
func bearerAuth(c *gin.Context, token, secret string) {
	claims, err := utils.ParseJWT(token, secret)
	if err != nil {
		logrus.WithError(err).Warn("bearer token rejected")
		reject(c, "")
		return
	}
	// The identity is exactly what was embedded at issuance.
	user := domain.User{ID: claims.Subject, Email: claims.Email}
	c.Set(CtxUserKey, user)
	c.Set(CtxUserIDKey, user.ID)
	c.Next()
}

// basicAuth decodes the base64 credential pair and checks it against the
// stored hash. The decoded payload is split on every colon and only the
// first two fields are used, so anything after a second colon is dropped.
// That matches the historic behavior; see DESIGN.md.
func basicAuth(c *gin.Context, db *gorm.DB, payload string) {
	decoded, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		logrus.WithError(err).Warn("basic auth payload is not valid base64")
		reject(c, "")
		return
	}

	parts := strings.Split(string(decoded), ":")
	email := parts[0]
	password := ""
	if len(parts) > 1 {
		password = parts[1]
	}

	user, err := domain.GetUserByEmail(db, email)
	if err != nil {
		logrus.WithField("email", email).WithError(err).Warn("basic auth user lookup failed")
		reject(c, "")
		return
	}
	if !utils.CheckPassword(password, user.Password) {
		logrus.WithField("email", email).Warn("basic auth password mismatch")
		reject(c, "")
		return
	}

	user.Password = "" // Scrub the hash before it reaches handlers
	c.Set(CtxUserKey, user)
	c.Set(CtxUserIDKey, user.ID)
	c.Next()
}

// reject aborts with a generic 401. The detailed reason, when present, is
// logged and never returned to the caller.
func reject(c *gin.Context, logReason string) {
	if logReason != "" {
		logrus.Warn("authentication rejected: " + logReason)
	}
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
}
