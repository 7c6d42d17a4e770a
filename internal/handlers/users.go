package handlers

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"foodapp/internal/middleware"
	"foodapp/internal/services"
	"foodapp/internal/storage"
)

type signupRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	Password string `json:"password"`
}

type updateUserRequest struct {
	Username *string `json:"username"`
	Email    *string `json:"email"`
	Phone    *string `json:"phone"`
	Password *string `json:"password"`
	Role     *string `json:"role"`
}

// Signup accepts a multipart form with an optional profilePhoto, or JSON.
func Signup(svc *services.UserService, blobs *storage.BlobStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "users.signup"
		defer handlePanic(c, route)

		var req signupRequest
		var photo string
		if isMultipart(c) {
			if _, err := c.MultipartForm(); err != nil {
				respondError(c, route, errInvalidBody)
				return
			}
			req = signupRequest{
				Username: c.PostForm("username"),
				Email:    c.PostForm("email"),
				Phone:    c.PostForm("phone"),
				Password: c.PostForm("password"),
			}

			saved, err := saveUpload(c, blobs, "profilePhoto")
			if err != nil {
				respondError(c, route, err)
				return
			}
			photo = saved
		} else if err := c.ShouldBindJSON(&req); err != nil {
			respondError(c, route, errInvalidBody)
			return
		}

		ctx, cancel := requestContext(c)
		defer cancel()

		user, err := svc.Signup(ctx, services.SignupInput{
			Username:     req.Username,
			Email:        req.Email,
			Phone:        req.Phone,
			Password:     req.Password,
			ProfilePhoto: photo,
		})
		if err != nil {
			respondError(c, route, err)
			return
		}

		c.JSON(http.StatusCreated, gin.H{
			"success": true,
			"message": "User registered successfully",
			"user":    user,
		})
	}
}

func ListUsers(svc *services.UserService) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "users.list"

		page, ok := pageFromQuery(c, route)
		if !ok {
			return
		}

		ctx, cancel := requestContext(c)
		defer cancel()

		users, err := svc.List(ctx)
		if err != nil {
			respondError(c, route, err)
			return
		}

		c.JSON(http.StatusOK, listResponse("users", len(users), paginate(users, page), page))
	}
}

// UpdateUser changes profile fields. Only admins may change a role.
func UpdateUser(svc *services.UserService) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "users.update"

		var req updateUserRequest
		if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
			respondError(c, route, errInvalidBody)
			return
		}

		ctx, cancel := requestContext(c)
		defer cancel()

		user, err := svc.Update(ctx, c.Param("id"), services.UserUpdateInput{
			Username: req.Username,
			Email:    req.Email,
			Phone:    req.Phone,
			Password: req.Password,
			Role:     req.Role,
		}, middleware.IsAdmin(c))
		if err != nil {
			respondError(c, route, err)
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"success": true,
			"message": "User updated successfully",
			"user":    user,
		})
	}
}

func DeleteUser(svc *services.UserService) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "users.delete"

		ctx, cancel := requestContext(c)
		defer cancel()

		if err := svc.Delete(ctx, c.Param("id")); err != nil {
			respondError(c, route, err)
			return
		}

		c.JSON(http.StatusOK, gin.H{"success": true, "message": "User deleted successfully"})
	}
}

func UploadUserPhoto(svc *services.UserService, blobs *storage.BlobStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "users.photo"
		defer handlePanic(c, route)

		photo, err := saveUpload(c, blobs, "profilePhoto")
		if err != nil {
			respondError(c, route, err)
			return
		}

		ctx, cancel := requestContext(c)
		defer cancel()

		user, err := svc.UpdatePhoto(ctx, c.Param("id"), photo)
		if err != nil {
			respondError(c, route, err)
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"success": true,
			"message": "Profile photo updated successfully",
			"user":    user,
		})
	}
}
