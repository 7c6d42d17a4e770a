package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"foodapp/internal/services"
	"foodapp/internal/storage"
)

type accessKeyByEmailRequest struct {
	Email string `json:"email" binding:"required"`
}

func CreateRestaurant(svc *services.RestaurantService, blobs *storage.BlobStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "restaurants.create"
		defer handlePanic(c, route)

		body, picture, err := parseListingRequest(c, blobs, "picture")
		if err != nil {
			respondError(c, route, err)
			return
		}

		ctx, cancel := requestContext(c)
		defer cancel()

		restaurant, err := svc.Create(ctx, services.RestaurantInput{
			ListingFields: body.fields(),
			AccessKey:     body.AccessKey,
			Picture:       picture,
		})
		if err != nil {
			respondError(c, route, err)
			return
		}

		c.JSON(http.StatusCreated, gin.H{
			"success": true,
			"message": "Restaurant created successfully",
			"data":    restaurant,
		})
	}
}

func ListRestaurants(svc *services.RestaurantService) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "restaurants.list"

		page, ok := pageFromQuery(c, route)
		if !ok {
			return
		}

		ctx, cancel := requestContext(c)
		defer cancel()

		restaurants, err := svc.List(ctx)
		if err != nil {
			respondError(c, route, err)
			return
		}

		c.JSON(http.StatusOK, listResponse("data", len(restaurants), paginate(restaurants, page), page))
	}
}

func GetRestaurant(svc *services.RestaurantService) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "restaurants.get"

		ctx, cancel := requestContext(c)
		defer cancel()

		restaurant, err := svc.Get(ctx, c.Param("id"))
		if err != nil {
			respondError(c, route, err)
			return
		}

		c.JSON(http.StatusOK, gin.H{"success": true, "data": restaurant})
	}
}

func GetRestaurantByAccessKey(svc *services.RestaurantService) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "restaurants.byAccessKey"

		ctx, cancel := requestContext(c)
		defer cancel()

		restaurant, err := svc.GetByAccessKey(ctx, c.Param("accessKey"))
		if err != nil {
			respondError(c, route, err)
			return
		}

		c.JSON(http.StatusOK, gin.H{"success": true, "data": restaurant})
	}
}

func AccessKeyByEmail(svc *services.RestaurantService) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "restaurants.accessKeyByEmail"

		var req accessKeyByEmailRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidationError(c, route, err)
			return
		}

		ctx, cancel := requestContext(c)
		defer cancel()

		key, err := svc.AccessKeyByEmail(ctx, req.Email)
		if err != nil {
			respondError(c, route, err)
			return
		}

		c.JSON(http.StatusOK, gin.H{"success": true, "accessKey": key})
	}
}

func UpdateRestaurant(svc *services.RestaurantService, blobs *storage.BlobStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "restaurants.update"
		defer handlePanic(c, route)

		body, picture, err := parseListingRequest(c, blobs, "picture")
		if err != nil {
			respondError(c, route, err)
			return
		}

		ctx, cancel := requestContext(c)
		defer cancel()

		restaurant, err := svc.Update(ctx, c.Param("id"), services.RestaurantInput{
			ListingFields: body.fields(),
			AccessKey:     body.AccessKey,
			Picture:       picture,
		})
		if err != nil {
			respondError(c, route, err)
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"success": true,
			"message": "Restaurant updated successfully",
			"data":    restaurant,
		})
	}
}

func DeleteRestaurant(svc *services.RestaurantService) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "restaurants.delete"

		ctx, cancel := requestContext(c)
		defer cancel()

		if err := svc.Delete(ctx, c.Param("id")); err != nil {
			respondError(c, route, err)
			return
		}

		c.JSON(http.StatusOK, gin.H{"success": true, "message": "Restaurant deleted successfully"})
	}
}
