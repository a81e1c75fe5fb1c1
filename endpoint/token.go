package endpoint

import (
	"net/http"
	"time"

	"consultorio-api/model"
	"consultorio-api/util"
	"github.com/gin-gonic/gin"
)

// ValidateToken godoc
// @Summary      Validate session token
// @Description  Check whether the session token is valid and not expired
// @Tags         Authentication
// @Produce      json
// @Security     SessionToken
// @Success      200 {object} util.APIResponse "Valid session token"
// @Failure      401 {object} util.APIResponse "Invalid or expired session token"
// @Router       /token/validate [get]
func ValidateToken(c *gin.Context) {
	sessionToken := c.GetHeader("session-token")
	if sessionToken == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid session token"})
		return
	}

	db, ok := getDBOrRespond(c)
	if !ok {
		return
	}

	var result struct {
		model.UserSession
		Role string `json:"role"`
	}
	err := db.Table("user_sessions").
		Select("user_sessions.*, roles.name as role").
		Joins("JOIN users ON user_sessions.user_id = users.id").
		Joins("JOIN roles ON users.role_id = roles.id").
		Where("session_token = ? AND expires_at > ? AND user_sessions.deleted_at IS NULL", sessionToken, time.Now()).
		First(&result).Error
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Session not found"})
		return
	}

	util.CallSuccessOK(c, util.APISuccessParams{Msg: "Valid session token", Data: result})
}
