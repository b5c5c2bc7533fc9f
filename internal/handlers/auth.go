package handlers

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"github.com/kinstream/kinstream/internal/mail"
	"github.com/kinstream/kinstream/internal/middleware"
	"github.com/kinstream/kinstream/internal/models"
	"github.com/kinstream/kinstream/internal/store"
)

const (
	tokenTTL     = 24 * time.Hour
	jwtCookie    = "jwt"
	resetSubject = "Password reset token"
)

// UserStore is the account storage the auth API needs.
type UserStore interface {
	Create(ctx context.Context, nu store.NewUser) (models.User, error)
	Authenticate(ctx context.Context, email, password string) (models.User, error)
	GetByID(ctx context.Context, id string) (models.User, error)
	GetByEmail(ctx context.Context, email string) (models.User, error)
	CreateResetToken(ctx context.Context, email string) (string, error)
	ClearResetToken(ctx context.Context, token string)
	ResetPassword(ctx context.Context, token, password string) error
}

// AuthAPI serves registration, login and the password reset flow.
type AuthAPI struct {
	Users     UserStore
	Mailer    mail.Mailer
	JWTSecret string
	Secure    bool // mark the jwt cookie Secure (production)
}

type registerRequest struct {
	Name     string `json:"name"`
	Username string `json:"username" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=3"`
}

type loginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type forgotRequest struct {
	Email string `json:"email" binding:"required,email"`
}

type resetRequest struct {
	Password string `json:"password" binding:"required,min=3"`
}

// Register creates an account.
func (a *AuthAPI) Register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"success": false, "error": err.Error()})
		return
	}

	user, err := a.Users.Create(c.Request.Context(), store.NewUser{
		Name:     req.Name,
		Username: req.Username,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, store.ErrEmailTaken) || errors.Is(err, store.ErrUsernameTaken) {
			status = http.StatusUnprocessableEntity
		}
		c.JSON(status, gin.H{"success": false, "error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"msg":     fmt.Sprintf("Welcome %s", user.Username),
	})
}

// Login verifies credentials and issues a JWT, both as an httpOnly cookie and
// in the response body.
func (a *AuthAPI) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Please provide an email and password"})
		return
	}

	user, err := a.Users.Authenticate(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Password or email is incorrect"})
		return
	}

	claims := middleware.Claims{
		UserID: user.ID,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(tokenTTL)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			NotBefore: jwt.NewNumericDate(time.Now()),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString([]byte(a.JWTSecret))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate token"})
		return
	}

	c.SetCookie(jwtCookie, tokenString, int(tokenTTL.Seconds()), "/", "", a.Secure, true)
	c.JSON(http.StatusOK, gin.H{
		"status":   "success",
		"username": user.Username,
		"name":     user.Name,
		"token":    tokenString,
	})
}

// Me returns the authenticated user's profile.
func (a *AuthAPI) Me(c *gin.Context) {
	userID := c.GetString("user_id")
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	user, err := a.Users.GetByID(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}
	c.JSON(http.StatusOK, user)
}

// ForgotPassword mints a reset token and mails the reset link. The token in
// the mail is plaintext; only its hash is stored, and it expires after ten
// minutes.
func (a *AuthAPI) ForgotPassword(c *gin.Context) {
	var req forgotRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"status": "fail", "error": err.Error()})
		return
	}

	user, err := a.Users.GetByEmail(c.Request.Context(), req.Email)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "No user found with the email address"})
		return
	}

	token, err := a.Users.CreateResetToken(c.Request.Context(), user.Email)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create reset token"})
		return
	}

	scheme := "http"
	if c.Request.TLS != nil {
		scheme = "https"
	}
	resetURL := fmt.Sprintf("%s://%s/api/v1/auth/resetpassword/%s", scheme, c.Request.Host, token)
	body := fmt.Sprintf("Reset your password : \n\n %s", resetURL)

	if err := a.Mailer.Send(user.Email, resetSubject, body); err != nil {
		log.Printf("reset mail to %s failed: %v", user.Email, err)
		a.Users.ClearResetToken(c.Request.Context(), token)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Email could not be sent"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "success", "data": "Email sent"})
}

// ResetPassword redeems an emailed token and sets the new password.
func (a *AuthAPI) ResetPassword(c *gin.Context) {
	var req resetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"status": "fail", "error": err.Error()})
		return
	}

	token := c.Param("token")
	if err := a.Users.ResetPassword(c.Request.Context(), token, req.Password); err != nil {
		if errors.Is(err, store.ErrInvalidResetToken) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Reset token is invalid or expired"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to reset password"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "success", "data": "Password updated"})
}
