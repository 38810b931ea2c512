package handler

import "github.com/julienschmidt/httprouter"

func (h *SpaceHandler) RegisterRoutes(router *httprouter.Router) {
	router.POST("/api/v1/spaces", h.Create)
	router.GET("/api/v1/spaces", h.GetAll)
	router.GET("/api/v1/spaces/:id", h.GetByID)
	router.PATCH("/api/v1/spaces/:id", h.Update)
	router.DELETE("/api/v1/spaces/:id", h.Delete)

	router.PUT("/api/v1/spaces/:id/rate", h.SetRate)
	router.GET("/api/v1/spaces/:id/calendar", h.Calendar)
	router.POST("/api/v1/spaces/:id/reservations", h.Reserve)
	router.DELETE("/api/v1/spaces/:id/reservations", h.Release)
	router.GET("/api/v1/spaces/:id/availability", h.Availability)
	router.POST("/api/v1/spaces/:id/reviews", h.AddReview)
}
