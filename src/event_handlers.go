package main

import (
	"errors"
	"evbs/src/db"
	"evbs/src/models"
	"evbs/src/types"
	"evbs/src/utils"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

func eventHandlers(g *gin.RouterGroup) *gin.RouterGroup {
	g.
		GET("/events", func(ctx *gin.Context) {
			var filters types.EventQueryFilters
			if err := ctx.ShouldBindQuery(&filters); err != nil {
				ctx.Status(http.StatusBadRequest)
				return
			}
			var events []models.Event
			db := db.GetDb()
			err := db.Transaction(func(tx *gorm.DB) error {
				q := tx.
					Where("status", types.EVENT_PUBLISHED).
					Where("date_time > ?", time.Now())
				if filters.Keyword != "" {
					q = q.Where("title ILIKE ?", "%"+filters.Keyword+"%")
				}
				if filters.Category != "" {
					q = q.Where("category", filters.Category)
				}
				return q.
					Order("date_time asc").
					Limit(20).
					Find(&events).
					Error
			})
			if err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"data": events})
		}).
		GET("/events/:id", func(ctx *gin.Context) {
			var params types.SimpleRequestParams
			if err := ctx.ShouldBindUri(&params); err != nil {
				ctx.Status(http.StatusBadRequest)
				return
			}
			var event models.Event
			db := db.GetDb()
			err := db.Transaction(func(tx *gorm.DB) error {
				return tx.
					Where(&models.Event{ID: params.ID}).
					First(&event).
					Error
			})
			if err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					ctx.Status(http.StatusNotFound)
					return
				}
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"data": event})
		}).
		GET("/events/:id/stats", func(ctx *gin.Context) {
			var params types.SimpleRequestParams
			if err := ctx.ShouldBindUri(&params); err != nil {
				ctx.Status(http.StatusBadRequest)
				return
			}
			stats, err := utils.GetEventStats(ctx, params.ID)
			if err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					ctx.Status(http.StatusNotFound)
					return
				}
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"data": stats})
		}).
		GET("/events/:id/waitlist/count", func(ctx *gin.Context) {
			var params types.SimpleRequestParams
			if err := ctx.ShouldBindUri(&params); err != nil {
				ctx.Status(http.StatusBadRequest)
				return
			}
			svc := getBookingService()
			count, err := svc.WaitlistCount(ctx, params.ID)
			if err != nil {
				abortWithError(ctx, err)
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"data": gin.H{"event_id": params.ID, "waiting": count}})
		})
	return g
}

func adminEventHandlers(g *gin.RouterGroup) *gin.RouterGroup {
	g.
		POST("/events", func(ctx *gin.Context) {
			var body types.CreateEventRequestBody
			if err := ctx.ShouldBindJSON(&body); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			userId := ctx.GetUint("id")
			id, err := utils.CreateNewEvent(&body, userId)
			if err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			ctx.JSON(http.StatusCreated, gin.H{"data": gin.H{"id": id}})
		}).
		PATCH("/events/:id", func(ctx *gin.Context) {
			var params types.SimpleRequestParams
			if err := ctx.ShouldBindUri(&params); err != nil {
				ctx.Status(http.StatusBadRequest)
				return
			}
			var body types.UpdateEventRequestBody
			if err := ctx.ShouldBindJSON(&body); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			userId := ctx.GetUint("id")
			if err := utils.UpdateDraftEvent(params.ID, &body, userId); err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					ctx.Status(http.StatusNotFound)
					return
				}
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			ctx.Status(http.StatusNoContent)
		}).
		PATCH("/events/:id/publish", func(ctx *gin.Context) {
			var params types.SimpleRequestParams
			if err := ctx.ShouldBindUri(&params); err != nil {
				ctx.Status(http.StatusBadRequest)
				return
			}
			userId := ctx.GetUint("id")
			if err := utils.PublishEvent(params.ID, userId); err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					ctx.Status(http.StatusNotFound)
					return
				}
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			ctx.Status(http.StatusNoContent)
		}).
		DELETE("/events/:id", func(ctx *gin.Context) {
			var params types.SimpleRequestParams
			if err := ctx.ShouldBindUri(&params); err != nil {
				ctx.Status(http.StatusBadRequest)
				return
			}
			userId := ctx.GetUint("id")
			svc := getBookingService()
			if err := svc.CancelEvent(ctx, params.ID, userId); err != nil {
				abortWithError(ctx, err)
				return
			}
			ctx.Status(http.StatusNoContent)
		}).
		POST("/events/:id/waitlist/notify", func(ctx *gin.Context) {
			var params types.SimpleRequestParams
			if err := ctx.ShouldBindUri(&params); err != nil {
				ctx.Status(http.StatusBadRequest)
				return
			}
			userId := ctx.GetUint("id")
			svc := getBookingService()
			notified, err := svc.NotifyWaitlist(ctx, params.ID, userId)
			if err != nil {
				abortWithError(ctx, err)
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"data": gin.H{"event_id": params.ID, "notified": notified}})
		})
	return g
}
