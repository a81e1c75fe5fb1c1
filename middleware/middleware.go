package middleware

import (
	"fmt"
	"net/http"
	"time"

	"consultorio-api/model"
	"consultorio-api/util"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

const (
	dbContextKey     = "db"
	userIDContextKey = "user_id"
)

// CORSMiddleware configures CORS headers for incoming requests.
func CORSMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, GET, OPTIONS, DELETE, PATCH")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "X-Requested-With, Content-Type, Authorization, session-token")
		c.Writer.Header().Set("Access-Control-Max-Age", "86400")
		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Content-Type", "application/json")

		// For preflight requests, respond with 204 and abort further processing.
		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}

// DatabaseMiddleware stores the shared gorm connection in the request
// context so handlers can retrieve it with GetDB.
func DatabaseMiddleware(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(dbContextKey, db)
		c.Next()
	}
}

// GetDB returns the request-scoped gorm connection, or nil if the
// DatabaseMiddleware did not run.
func GetDB(c *gin.Context) *gorm.DB {
	if db, ok := c.Get(dbContextKey); ok {
		if gdb, ok := db.(*gorm.DB); ok {
			return gdb
		}
	}
	return nil
}

// AuthRequired validates the session-token header against the
// user_sessions table and stores the authenticated practitioner's user ID
// in the request context.
func AuthRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		sessionToken := c.GetHeader("session-token")
		if sessionToken == "" {
			util.LogUnauthorizedAccess("", "", c.ClientIP(), c.Request.URL.Path, "missing session token")
			util.CallUserNotAuthorized(c, util.APIErrorParams{
				Msg: "Missing session token",
				Err: fmt.Errorf("session-token header is required"),
			})
			c.Abort()
			return
		}

		db := GetDB(c)
		if db == nil {
			util.CallServerError(c, util.APIErrorParams{
				Msg: "Database connection not available",
				Err: fmt.Errorf("db is nil"),
			})
			c.Abort()
			return
		}

		var session model.UserSession
		err := db.Where("session_token = ? AND expires_at > ?", sessionToken, time.Now()).First(&session).Error
		if err != nil {
			util.LogUnauthorizedAccess("", "", c.ClientIP(), c.Request.URL.Path, "invalid or expired session")
			util.CallUserNotAuthorized(c, util.APIErrorParams{
				Msg: "Invalid or expired session token",
				Err: fmt.Errorf("session not found"),
			})
			c.Abort()
			return
		}

		c.Set(userIDContextKey, session.UserID)
		c.Next()
	}
}

// GetUserID returns the authenticated user's ID from the request context.
func GetUserID(c *gin.Context) (uint, bool) {
	if v, ok := c.Get(userIDContextKey); ok {
		if id, ok := v.(uint); ok {
			return id, true
		}
	}
	return 0, false
}
