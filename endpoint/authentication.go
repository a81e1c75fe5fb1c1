package endpoint

import (
	"fmt"
	"time"

	"consultorio-api/model"
	"consultorio-api/util"
	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	maxFailedAttempts = 5
	lockDuration      = 15 * time.Minute
	sessionDuration   = 12 * time.Hour
)

type SignupRequest struct {
	Name     string `json:"name" binding:"required" example:"Dr. Ana Lopez"`
	Email    string `json:"email" binding:"required,email" example:"ana@example.com"`
	Password string `json:"password" binding:"required" example:"password123"`
}

// Signup godoc
// @Summary      Register practitioner
// @Description  Create a practitioner account
// @Tags         Authentication
// @Accept       json
// @Produce      json
// @Param        request body SignupRequest true "Account data"
// @Success      201 {object} util.APIResponse "Account created"
// @Failure      400 {object} util.APIResponse "Invalid request or email taken"
// @Router       /signup [post]
func Signup(c *gin.Context) {
	var req SignupRequest
	if !bindJSONOrRespond(c, &req, "Invalid request payload") {
		return
	}

	db, ok := getDBOrRespond(c)
	if !ok {
		return
	}

	var role model.Role
	if err := db.Where("name = ?", "Practitioner").First(&role).Error; err != nil {
		util.CallServerError(c, util.APIErrorParams{Msg: "Practitioner role not seeded", Err: err})
		return
	}

	salt, err := util.GenerateSalt()
	if err != nil {
		util.CallServerError(c, util.APIErrorParams{Msg: "Failed to generate password salt", Err: err})
		return
	}
	hashed, err := util.HashPasswordArgon2(req.Password, salt)
	if err != nil {
		util.CallServerError(c, util.APIErrorParams{Msg: "Failed to hash password", Err: err})
		return
	}

	user := model.User{
		Name:         util.NormalizeName(req.Name),
		Email:        req.Email,
		Password:     hashed,
		PasswordSalt: salt,
		RoleID:       role.ID,
	}
	if err := db.Create(&user).Error; err != nil {
		util.CallUserError(c, util.APIErrorParams{Msg: "Failed to create account, email may already be registered", Err: err})
		return
	}

	util.LogSecurityEvent(util.SecurityEvent{
		EventType: util.EventSignupSuccess,
		UserID:    fmt.Sprintf("%d", user.ID),
		Email:     user.Email,
		IP:        c.ClientIP(),
		UserAgent: c.Request.UserAgent(),
		Message:   "Practitioner account created",
	})
	util.CallSuccessCreated(c, util.APISuccessParams{Msg: "Account created successfully", Data: map[string]interface{}{"user_id": user.ID}})
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email" example:"ana@example.com"`
	Password string `json:"password" binding:"required" example:"password123"`
}

type LoginResponse struct {
	Token        string `json:"token"`
	SessionToken string `json:"session_token"`
	UserID       uint   `json:"user_id"`
}

func isAccountLocked(user *model.User) (bool, time.Time) {
	if user.LockedUntil != nil && *user.LockedUntil > time.Now().Unix() {
		return true, time.Unix(*user.LockedUntil, 0)
	}
	return false, time.Time{}
}

func recordFailedAttempt(db *gorm.DB, user *model.User, ip string) {
	user.FailedAttempts++
	if user.FailedAttempts >= maxFailedAttempts {
		lockUntil := time.Now().Add(lockDuration).Unix()
		user.LockedUntil = &lockUntil
		util.LogAccountLocked(user.ID, user.Email, ip, "too many failed login attempts")
	}
	_ = db.Save(user).Error
}

func resetFailedAttempts(db *gorm.DB, user *model.User) {
	if user.FailedAttempts > 0 || user.LockedUntil != nil {
		user.FailedAttempts = 0
		user.LockedUntil = nil
		_ = db.Save(user).Error
	}
}

func createJWT(user model.User) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"email": user.Email,
		"exp":   time.Now().Add(time.Hour).Unix(),
		"role":  user.RoleID,
	})
	return token.SignedString(util.GetJWTSecretByte())
}

// Login godoc
// @Summary      Practitioner login
// @Description  Authenticate with email and password; returns a JWT and a session token
// @Tags         Authentication
// @Accept       json
// @Produce      json
// @Param        request body LoginRequest true "Login credentials"
// @Success      200 {object} util.APIResponse{data=LoginResponse} "Login successful"
// @Failure      400 {object} util.APIResponse "Invalid credentials or account locked"
// @Router       /login [post]
func Login(c *gin.Context) {
	var req LoginRequest
	if !bindJSONOrRespond(c, &req, "Invalid request payload") {
		return
	}

	db, ok := getDBOrRespond(c)
	if !ok {
		return
	}
	ip, agent := c.ClientIP(), c.Request.UserAgent()

	var user model.User
	if err := db.Where("email = ?", req.Email).First(&user).Error; err != nil {
		util.LogLoginFailure(req.Email, ip, agent, "user not found")
		util.CallUserError(c, util.APIErrorParams{Msg: "Invalid email or password", Err: fmt.Errorf("invalid credentials")})
		return
	}

	if locked, until := isAccountLocked(&user); locked {
		util.LogLoginFailure(req.Email, ip, agent, "account locked")
		util.CallUserError(c, util.APIErrorParams{
			Msg: fmt.Sprintf("Account is locked until %s due to multiple failed login attempts", until.Format(time.RFC3339)),
			Err: fmt.Errorf("account locked"),
		})
		return
	}

	if !util.VerifyPassword(req.Password, user.Password) {
		recordFailedAttempt(db, &user, ip)
		util.LogLoginFailure(req.Email, ip, agent, "wrong password")
		util.CallUserError(c, util.APIErrorParams{Msg: "Invalid email or password", Err: fmt.Errorf("invalid credentials")})
		return
	}
	resetFailedAttempts(db, &user)

	jwtToken, err := createJWT(user)
	if err != nil {
		util.CallServerError(c, util.APIErrorParams{Msg: "Could not generate token", Err: err})
		return
	}

	session := model.UserSession{
		UserID:       user.ID,
		SessionToken: uuid.NewString(),
		ExpiresAt:    time.Now().Add(sessionDuration),
		ClientIP:     ip,
		Browser:      agent,
	}
	if err := db.Create(&session).Error; err != nil {
		util.CallServerError(c, util.APIErrorParams{Msg: "Failed to create session", Err: err})
		return
	}
	if err := util.AddSessionToUserSet(user.ID, session.SessionToken); err != nil {
		util.LogSecurityEvent(util.SecurityEvent{
			EventType: util.EventSuspiciousActivity,
			UserID:    fmt.Sprintf("%d", user.ID),
			Message:   fmt.Sprintf("Failed to track session in redis: %v", err),
		})
	}

	util.LogLoginSuccess(user.ID, user.Email, ip, agent)
	util.CallSuccessOK(c, util.APISuccessParams{
		Msg:  "Login successful",
		Data: LoginResponse{Token: jwtToken, SessionToken: session.SessionToken, UserID: user.ID},
	})
}

// Logout godoc
// @Summary      Practitioner logout
// @Description  Invalidate the current session token
// @Tags         Authentication
// @Produce      json
// @Security     SessionToken
// @Success      200 {object} util.APIResponse "Logout successful"
// @Failure      404 {object} util.APIResponse "Session not found"
// @Router       /logout [delete]
func Logout(c *gin.Context) {
	sessionToken := c.GetHeader("session-token")
	if sessionToken == "" {
		util.CallUserError(c, util.APIErrorParams{Msg: "Missing session token", Err: fmt.Errorf("session-token header is required")})
		return
	}

	db, ok := getDBOrRespond(c)
	if !ok {
		return
	}

	var session model.UserSession
	if err := db.Where("session_token = ?", sessionToken).First(&session).Error; err != nil {
		util.CallErrorNotFound(c, util.APIErrorParams{Msg: "Session not found", Err: err})
		return
	}
	if err := db.Delete(&session).Error; err != nil {
		util.CallServerError(c, util.APIErrorParams{Msg: "Failed to delete session", Err: err})
		return
	}
	_ = util.RemoveSessionTokenFromUserSet(session.UserID, sessionToken)

	util.LogLogout(session.UserID, util.GetUserEmail(db, session.UserID), c.ClientIP(), c.Request.UserAgent())
	util.CallSuccessOK(c, util.APISuccessParams{Msg: "Logout successful", Data: nil})
}
