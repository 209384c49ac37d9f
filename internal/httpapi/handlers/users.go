package handlers

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/truthcheck/truthcheck/internal/auth"
	"github.com/truthcheck/truthcheck/internal/common"
	"github.com/truthcheck/truthcheck/internal/email"
	"github.com/truthcheck/truthcheck/internal/httpapi/middleware"
	"github.com/truthcheck/truthcheck/internal/models"
	"github.com/truthcheck/truthcheck/internal/validate"
)

const confirmTokenTTL = 24 * time.Hour

func (h *Handler) Ping(c *gin.Context) {
	common.OK(c, gin.H{"pong": true})
}

type createUserReq struct {
	Name            string `json:"name"`
	Email           string `json:"email"`
	Phone           string `json:"phone"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirm_password"`
}

func (h *Handler) CreateUser(c *gin.Context) {
	var req createUserReq
	if err := c.ShouldBindJSON(&req); err != nil {
		common.Fail(c, http.StatusBadRequest, 10001, "invalid json")
		return
	}

	if strings.TrimSpace(req.Name) == "" {
		common.Fail(c, http.StatusBadRequest, 10010, "Please enter your full name.")
		return
	}
	if !validate.Email(req.Email) {
		common.Fail(c, http.StatusBadRequest, 10011, "Please enter a valid email address.")
		return
	}
	if !validate.Password(req.Password) {
		common.Fail(c, http.StatusBadRequest, 10012, "Password must be at least 6 characters long.")
		return
	}
	if req.Password != req.ConfirmPassword {
		common.Fail(c, http.StatusBadRequest, 10013, "Please make sure your passwords match and try again.")
		return
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		common.Fail(c, http.StatusInternalServerError, 20002, "failed to hash password")
		return
	}

	user := models.User{
		Email:        req.Email,
		PasswordHash: hash,
		Name:         strings.TrimSpace(req.Name),
		Phone:        strings.TrimSpace(req.Phone),
	}
	if err := h.DB.Create(&user).Error; err != nil {
		common.Fail(c, http.StatusBadRequest, 10003, "Failed to create account. Please try again.")
		return
	}

	token, err := auth.SignJWT(user.ID, h.Cfg.JWTSecret, h.Cfg.JWTTTL)
	if err != nil {
		common.Fail(c, http.StatusInternalServerError, 20003, "failed to sign token")
		return
	}

	// confirmation link token
	confirmToken, err := common.NewULID()
	if err == nil {
		if err := h.Redis.SetConfirmToken(c.Request.Context(), confirmToken, user.ID, confirmTokenTTL); err == nil {
			go h.sendSignupMail(user.Email, user.Name, confirmToken)
		}
	}

	common.OK(c, gin.H{
		"id":      user.ID,
		"email":   user.Email,
		"name":    user.Name,
		"token":   token,
		"message": "Welcome to TruthCheck! Please check your email to verify your account.",
	})
}

func (h *Handler) sendSignupMail(to, name, confirmToken string) {
	link := h.Cfg.BaseURL + "/users/confirm?token=" + confirmToken
	subject := "Welcome to TruthCheck — confirm your email"
	body := "Hello " + name + ",\n\n" +
		"Welcome to TruthCheck. Your account has been successfully created.\n\n" +
		"Please confirm your email address by opening this link:\n" +
		link + "\n\n" +
		"If you did not request this account, please contact our support immediately.\n\n" +
		"Best regards,\n" +
		"TruthCheck\n"
	_ = email.SendText(h.SMTPSetting, to, subject, body)
}

func (h *Handler) ConfirmEmail(c *gin.Context) {
	token := c.Query("token")
	if token == "" {
		common.Fail(c, http.StatusBadRequest, 10005, "token required")
		return
	}

	uid, err := h.Redis.GetConfirmToken(c.Request.Context(), token)
	if err != nil {
		if errors.Is(err, redis.Nil) {
			common.Fail(c, http.StatusBadRequest, 10020, "confirmation link expired or not found")
			return
		}
		common.Fail(c, http.StatusInternalServerError, 20001, "redis error")
		return
	}

	now := time.Now()
	if err := h.DB.Model(&models.User{}).
		Where("id = ? AND email_confirmed_at IS NULL", uid).
		Update("email_confirmed_at", now).Error; err != nil {
		common.Fail(c, http.StatusInternalServerError, 20005, "db error")
		return
	}
	_ = h.Redis.DeleteConfirmToken(c.Request.Context(), token)

	common.OK(c, gin.H{"confirmed": true})
}

type loginReq struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

const loginFailedMsg = "Invalid email or password. Please try again."

func (h *Handler) Login(c *gin.Context) {
	var req loginReq
	if err := c.ShouldBindJSON(&req); err != nil {
		common.Fail(c, http.StatusBadRequest, 10001, "invalid json")
		return
	}

	// shape checks run before any lookup, one attempt, no retries
	if !validate.Email(req.Email) {
		common.Fail(c, http.StatusBadRequest, 10011, "Please enter a valid email address.")
		return
	}
	if !validate.Password(req.Password) {
		common.Fail(c, http.StatusBadRequest, 10012, "Password must be at least 6 characters long.")
		return
	}

	var user models.User
	if err := h.DB.Where("email = ?", req.Email).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			common.Fail(c, http.StatusUnauthorized, 40110, loginFailedMsg)
			return
		}
		common.Fail(c, http.StatusInternalServerError, 20001, "db error")
		return
	}
	if !auth.CheckPassword(user.PasswordHash, req.Password) {
		common.Fail(c, http.StatusUnauthorized, 40110, loginFailedMsg)
		return
	}

	token, err := auth.SignJWT(user.ID, h.Cfg.JWTSecret, h.Cfg.JWTTTL)
	if err != nil {
		common.Fail(c, http.StatusInternalServerError, 20003, "failed to sign token")
		return
	}

	common.OK(c, gin.H{
		"id":    user.ID,
		"email": user.Email,
		"name":  user.Name,
		"token": token,
	})
}

// Logout revokes the presented token until its natural expiry.
func (h *Handler) Logout(c *gin.Context) {
	jti := c.GetString(middleware.TokenJTIKey)
	exp := middleware.TokenExpFromContext(c)
	if jti != "" {
		if err := h.Redis.RevokeToken(c.Request.Context(), jti, exp); err != nil {
			common.Fail(c, http.StatusInternalServerError, 20001, "redis error")
			return
		}
	}
	common.OK(c, gin.H{"message": "You have been logged out of your account."})
}

// Me restores the session: it returns the UserIdentity for the bearer token.
func (h *Handler) Me(c *gin.Context) {
	uid, okk := userIDFromContext(c)
	if !okk {
		common.Fail(c, http.StatusUnauthorized, 40101, "unauthorized")
		return
	}

	var user models.User
	if err := h.DB.First(&user, uid).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			common.Fail(c, http.StatusNotFound, 40401, "user not found")
			return
		}
		common.Fail(c, http.StatusInternalServerError, 20001, "db error")
		return
	}

	common.OK(c, gin.H{
		"id":                 user.ID,
		"email":              user.Email,
		"name":               user.Name,
		"phone":              user.Phone,
		"email_confirmed_at": user.EmailConfirmedAt,
		"created_at":         user.CreatedAt,
	})
}
