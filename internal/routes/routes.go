// Package routes assembles the HTTP surface.
package routes

import (
	"slices"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"foodapp/internal/config"
	"foodapp/internal/handlers"
	"foodapp/internal/mailer"
	"foodapp/internal/middleware"
	"foodapp/internal/repository"
	"foodapp/internal/services"
	"foodapp/internal/storage"
)

type Deps struct {
	Config        config.Config
	Store         repository.Pinger
	Blobs         *storage.BlobStore
	Restaurants   *services.RestaurantService
	Notifications *services.NotificationService
	Users         *services.UserService
	Auth          *services.AuthService
	Mailer        *mailer.Mailer
}

func corsConfig(origins []string) cors.Config {
	cfg := cors.Config{
		AllowMethods: []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders: []string{"Authorization", "Content-Type"},
		MaxAge:       12 * time.Hour,
	}
	if len(origins) == 0 || slices.Contains(origins, "*") {
		cfg.AllowAllOrigins = true
		return cfg
	}
	cfg.AllowOrigins = origins
	cfg.AllowCredentials = true
	return cfg
}

func New(d Deps) *gin.Engine {
	r := gin.New()
	r.Use(gin.Logger(), gin.Recovery())
	r.Use(cors.New(corsConfig(d.Config.CORSOrigins)))
	r.MaxMultipartMemory = d.Blobs.MaxSize() + 1<<20

	r.Static(d.Blobs.PublicPath(), d.Blobs.Dir())
	r.GET("/health", handlers.Health(d.Store))

	secret := d.Config.JWTSecret
	admin := middleware.AdminAuth(secret)

	restaurants := r.Group("/restaurants")
	{
		restaurants.POST("", handlers.CreateRestaurant(d.Restaurants, d.Blobs))
		restaurants.GET("", handlers.ListRestaurants(d.Restaurants))
		restaurants.GET("/:id", handlers.GetRestaurant(d.Restaurants))
		restaurants.GET("/by-access-key/:accessKey", handlers.GetRestaurantByAccessKey(d.Restaurants))
		restaurants.POST("/get-accesskey-by-email", handlers.AccessKeyByEmail(d.Restaurants))
		restaurants.PUT("/:id", handlers.UpdateRestaurant(d.Restaurants, d.Blobs))
		restaurants.DELETE("/:id", handlers.DeleteRestaurant(d.Restaurants))
	}

	r.POST("/notify", handlers.CreateNotification(d.Notifications, d.Blobs))
	notifications := r.Group("/notifications")
	notifications.Use(admin)
	{
		notifications.GET("", handlers.ListNotifications(d.Notifications))
		notifications.GET("/:id", handlers.GetNotification(d.Notifications))
		notifications.PATCH("/:id", handlers.UpdateNotificationStatus(d.Notifications, d.Blobs))
		notifications.DELETE("/:id", handlers.DeleteNotification(d.Notifications))
	}

	users := r.Group("/users")
	{
		users.POST("/signup", handlers.Signup(d.Users, d.Blobs))
		users.POST("/login", handlers.Login(d.Auth))
		users.POST("/refresh", handlers.Refresh(d.Auth))
		users.POST("/logout", handlers.Logout(d.Auth))
		users.GET("", admin, handlers.ListUsers(d.Users))

		self := users.Group("/:id")
		self.Use(middleware.AuthGuard(secret), middleware.SelfOrAdmin("id"))
		{
			self.PUT("", handlers.UpdateUser(d.Users))
			self.DELETE("", handlers.DeleteUser(d.Users))
			self.POST("/photo", handlers.UploadUserPhoto(d.Users, d.Blobs))
		}
	}

	r.POST("/email/send", admin, handlers.SendEmail(d.Mailer))

	return r
}
