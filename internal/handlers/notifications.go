package handlers

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"foodapp/internal/services"
	"foodapp/internal/storage"
)

type statusRequest struct {
	Status string `json:"status"`
}

func CreateNotification(svc *services.NotificationService, blobs *storage.BlobStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "notifications.create"
		defer handlePanic(c, route)

		body, picture, err := parseListingRequest(c, blobs, "picture")
		if err != nil {
			respondError(c, route, err)
			return
		}

		ctx, cancel := requestContext(c)
		defer cancel()

		notification, err := svc.Create(ctx, services.NotificationInput{
			ListingFields: body.fields(),
			RequestType:   body.RequestType,
			AccessKey:     body.AccessKey,
			Picture:       picture,
		})
		if err != nil {
			respondError(c, route, err)
			return
		}

		c.JSON(http.StatusCreated, gin.H{
			"success": true,
			"message": "Notification created successfully",
			"data":    notification,
		})
	}
}

func ListNotifications(svc *services.NotificationService) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "notifications.list"

		page, ok := pageFromQuery(c, route)
		if !ok {
			return
		}

		ctx, cancel := requestContext(c)
		defer cancel()

		notifications, err := svc.List(ctx)
		if err != nil {
			respondError(c, route, err)
			return
		}

		c.JSON(http.StatusOK, listResponse("data", len(notifications), paginate(notifications, page), page))
	}
}

func GetNotification(svc *services.NotificationService) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "notifications.get"

		ctx, cancel := requestContext(c)
		defer cancel()

		notification, err := svc.Get(ctx, c.Param("id"))
		if err != nil {
			respondError(c, route, err)
			return
		}

		c.JSON(http.StatusOK, gin.H{"success": true, "data": notification})
	}
}

// UpdateNotificationStatus accepts {status} as JSON, or a multipart form with
// status and an optional replacement picture.
func UpdateNotificationStatus(svc *services.NotificationService, blobs *storage.BlobStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "notifications.updateStatus"
		defer handlePanic(c, route)

		var req statusRequest
		var picture string
		if isMultipart(c) {
			if _, err := c.MultipartForm(); err != nil {
				respondError(c, route, errInvalidBody)
				return
			}
			req.Status = c.PostForm("status")

			saved, err := saveUpload(c, blobs, "picture")
			if err != nil {
				respondError(c, route, err)
				return
			}
			picture = saved
		} else if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
			respondError(c, route, errInvalidBody)
			return
		}

		ctx, cancel := requestContext(c)
		defer cancel()

		notification, err := svc.UpdateStatus(ctx, c.Param("id"), req.Status, picture)
		if err != nil {
			respondError(c, route, err)
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"success": true,
			"message": "Notification status updated successfully",
			"data":    notification,
		})
	}
}

func DeleteNotification(svc *services.NotificationService) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "notifications.delete"

		ctx, cancel := requestContext(c)
		defer cancel()

		if err := svc.Delete(ctx, c.Param("id")); err != nil {
			respondError(c, route, err)
			return
		}

		c.JSON(http.StatusOK, gin.H{"success": true, "message": "Notification deleted successfully"})
	}
}
