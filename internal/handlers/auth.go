package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"foodapp/internal/services"
)

type loginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type refreshRequest struct {
	RefreshToken string `json:"refreshToken" binding:"required"`
}

func Login(auth *services.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "auth.login"

		var req loginRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidationError(c, route, err)
			return
		}

		ctx, cancel := requestContext(c)
		defer cancel()

		user, tokens, err := auth.Login(ctx, req.Email, req.Password)
		if err != nil {
			respondError(c, route, err)
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"success":      true,
			"message":      "Login successful",
			"accessToken":  tokens.AccessToken,
			"refreshToken": tokens.RefreshToken,
			"expiresIn":    tokens.ExpiresIn,
			"user":         user,
		})
	}
}

func Refresh(auth *services.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "auth.refresh"

		var req refreshRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidationError(c, route, err)
			return
		}

		ctx, cancel := requestContext(c)
		defer cancel()

		user, tokens, err := auth.Refresh(ctx, req.RefreshToken)
		if err != nil {
			respondError(c, route, err)
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"success":      true,
			"accessToken":  tokens.AccessToken,
			"refreshToken": tokens.RefreshToken,
			"expiresIn":    tokens.ExpiresIn,
			"user":         user,
		})
	}
}

func Logout(auth *services.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "auth.logout"

		var req refreshRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidationError(c, route, err)
			return
		}

		ctx, cancel := requestContext(c)
		defer cancel()

		if err := auth.Logout(ctx, req.RefreshToken); err != nil {
			respondError(c, route, err)
			return
		}

		c.JSON(http.StatusOK, gin.H{"success": true, "message": "Logged out"})
	}
}
