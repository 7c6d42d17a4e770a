package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"foodapp/internal/mailer"
)

func SendEmail(m *mailer.Mailer) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "email.send"

		var req mailer.Message
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidationError(c, route, err)
			return
		}

		ctx, cancel := requestContext(c)
		defer cancel()

		if err := m.Send(ctx, req); err != nil {
			respondError(c, route, err)
			return
		}

		c.JSON(http.StatusOK, gin.H{"success": true, "message": "Email sent successfully"})
	}
}
