package v1

import (
	"github.com/gin-gonic/gin"
)

// RegisterRoutes регистрирует все маршруты API v1
func (h *Handler) RegisterRoutes(api *gin.RouterGroup) {
	protected := api.Group("")
	if len(h.cfg.APIKeys) > 0 {
		protected.Use(APIKeyAuthMiddleware(h.cfg, h.logger))
	}

	// Маршруты для отчетов о рисках и агрегатов ячеек
	protected.POST("/reports", h.createReport)
	protected.GET("/cells/:id", h.getCell)
	protected.POST("/location/check", h.checkLocation)

	// Маршрут ранжирования маршрутов
	protected.POST("/routes/rank", h.rankRoutes)

	// Маршруты SOS-сессий
	sos := protected.Group("/sos")
	{
		sos.POST("", h.triggerSOS)
		sos.GET("/:id", h.getSession)
		sos.POST("/:id/cancel", h.cancelSOS)
		sos.POST("/:id/resolve", h.resolveSOS)
		sos.POST("/:id/location", h.appendLocation)
	}

	// Колбэк шлюза доставки подписывается HMAC, а не API-ключом
	api.POST("/sos/delivery/callback", h.deliveryCallback)

	// Маршруты справочника контактов и настроек пользователя
	users := protected.Group("/users/:user_id")
	{
		users.GET("/contacts", h.listContacts)
		users.POST("/contacts", h.createContact)
		users.POST("/contacts/reorder", h.reorderContacts)
		users.PUT("/contacts/:id", h.updateContact)
		users.DELETE("/contacts/:id", h.deleteContact)
		users.GET("/settings", h.getSettings)
		users.PUT("/settings", h.updateSettings)
	}

	// Маршрут для статистики
	protected.GET("/stats", h.getStats)

	// Маршрут Health-check
	api.GET("/system/health", h.healthCheck)
}
