package handlers

import (
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/01moynul/storefront-golang/internal/auth"
	"github.com/01moynul/storefront-golang/internal/middleware"
	"github.com/01moynul/storefront-golang/internal/store"
	"github.com/gin-gonic/gin"
)

// recentLoginsShown is how many login log entries the profile page lists.
const recentLoginsShown = 5

type SignupInput struct {
	Email       string `json:"email" form:"email" binding:"required,email"`
	Password    string `json:"password" form:"password" binding:"required,min=8"`
	FirstName   string `json:"first_name" form:"first_name" binding:"required,max=100"`
	LastName    string `json:"last_name" form:"last_name" binding:"required,max=100"`
	PhoneNumber string `json:"phone_number" form:"phone_number" binding:"omitempty,max=15"`
}

type LoginInput struct {
	Email    string `json:"email" form:"email" binding:"required"`
	Password string `json:"password" form:"password" binding:"required"`
}

type RefreshInput struct {
	Refresh string `json:"refresh" form:"refresh" binding:"required"`
}

type LogoutInput struct {
	Refresh string `json:"refresh" form:"refresh"`
}

type ProfileInput struct {
	FirstName string `json:"first_name" form:"first_name" binding:"required,max=100"`
	LastName  string `json:"last_name" form:"last_name" binding:"required,max=100"`
}

// Signup handles POST /signup. Creating the user also provisions its
// profile and cart.
func (h *Handlers) Signup(c *gin.Context) {
	var input SignupInput
	if err := c.ShouldBind(&input); err != nil {
		bindError(c, err)
		return
	}

	user, err := h.Store.CreateUser(c.Request.Context(), store.NewUser{
		Email:       input.Email,
		Password:    input.Password,
		FirstName:   input.FirstName,
		LastName:    input.LastName,
		PhoneNumber: input.PhoneNumber,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	tokens, err := h.Tokens.IssuePair(user.ID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Account created successfully",
		"user":    user,
		"tokens":  tokens,
	})
}

// Login handles POST /login.
func (h *Handlers) Login(c *gin.Context) {
	var input LoginInput
	if err := c.ShouldBind(&input); err != nil {
		bindError(c, err)
		return
	}

	user, err := h.Store.Authenticate(c.Request.Context(), input.Email, input.Password)
	if err != nil {
		respondError(c, err)
		return
	}

	tokens, err := h.Tokens.IssuePair(user.ID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Login successful",
		"user":    user,
		"tokens":  tokens,
	})
}

// RefreshToken handles POST /token/refresh. The presented refresh token is
// revoked and replaced, so each one can be exchanged only once.
func (h *Handlers) RefreshToken(c *gin.Context) {
	var input RefreshInput
	if err := c.ShouldBind(&input); err != nil {
		bindError(c, err)
		return
	}
	ctx := c.Request.Context()

	claims, err := h.Tokens.Validate(input.Refresh, auth.RefreshToken)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired refresh token"})
		return
	}

	revoked, err := h.Store.IsTokenRevoked(ctx, claims.ID)
	if err != nil {
		respondError(c, err)
		return
	}
	if revoked {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Refresh token has been revoked"})
		return
	}

	user, err := h.Store.GetUser(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			respondError(c, store.ErrUnauthenticated)
			return
		}
		respondError(c, err)
		return
	}
	if !user.IsActive {
		respondError(c, store.ErrUnauthenticated)
		return
	}

	if err := h.Store.RevokeToken(ctx, claims.ID, claims.UserID, claims.ExpiresAt); err != nil {
		respondError(c, err)
		return
	}

	tokens, err := h.Tokens.IssuePair(user.ID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"tokens": tokens})
}

// Logout handles POST /logout. It revokes the access token used for the
// request and, when one is sent, the caller's refresh token.
func (h *Handlers) Logout(c *gin.Context) {
	var input LogoutInput
	if hasBody(c) {
		if err := c.ShouldBind(&input); err != nil {
			bindError(c, err)
			return
		}
	}
	ctx := c.Request.Context()
	userID := currentUserID(c)

	expiresAt, _ := c.Get(middleware.TokenExpiresAtKey)
	exp, _ := expiresAt.(time.Time)
	if err := h.Store.RevokeToken(ctx, c.GetString(middleware.TokenIDKey), userID, exp); err != nil {
		respondError(c, err)
		return
	}

	if input.Refresh != "" {
		claims, err := h.Tokens.Validate(input.Refresh, auth.RefreshToken)
		switch {
		case err != nil:
			log.Printf("logout: ignoring invalid refresh token for user %d", userID)
		case claims.UserID != userID:
			log.Printf("logout: refresh token of user %d presented by user %d", claims.UserID, userID)
		default:
			if err := h.Store.RevokeToken(ctx, claims.ID, userID, claims.ExpiresAt); err != nil {
				respondError(c, err)
				return
			}
		}
	}

	c.JSON(http.StatusOK, gin.H{"message": "Logged out successfully"})
}

// GetProfile handles GET /profile.
func (h *Handlers) GetProfile(c *gin.Context) {
	ctx := c.Request.Context()
	userID := currentUserID(c)

	user, err := h.Store.GetUser(ctx, userID)
	if err != nil {
		respondError(c, err)
		return
	}
	profile, err := h.Store.GetProfile(ctx, userID)
	if err != nil {
		respondError(c, err)
		return
	}

	signup, err := h.Store.GetSignupLog(ctx, userID)
	if err != nil {
		respondError(c, err)
		return
	}
	logins, err := h.Store.RecentLogins(ctx, userID, recentLoginsShown)
	if err != nil {
		respondError(c, err)
		return
	}

	response := gin.H{
		"user":         user,
		"profile":      profile,
		"memberId":     signup.PublicID,
		"memberSince":  signup.SignupTime,
		"recentLogins": logins,
	}
	if profile.ProfileImage != nil {
		response["profileImageUrl"] = h.publicURL(*profile.ProfileImage)
	}
	c.JSON(http.StatusOK, response)
}

// UpdateProfile handles POST /profile.
func (h *Handlers) UpdateProfile(c *gin.Context) {
	var input ProfileInput
	if err := c.ShouldBind(&input); err != nil {
		bindError(c, err)
		return
	}

	user, err := h.Store.UpdateNames(c.Request.Context(), currentUserID(c), input.FirstName, input.LastName)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Profile updated successfully", "user": user})
}

// UploadProfileImage handles POST /profile/image with a multipart "image" file.
func (h *Handlers) UploadProfileImage(c *gin.Context) {
	file, err := c.FormFile("image")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No file uploaded"})
		return
	}

	relPath, err := h.saveImage(c, file, "profile_images")
	if err != nil {
		respondError(c, err)
		return
	}

	profile, err := h.Store.SetProfileImage(c.Request.Context(), currentUserID(c), relPath)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message": "Profile image updated",
		"profile": profile,
		"url":     h.publicURL(relPath),
	})
}
