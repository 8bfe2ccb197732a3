package main

import (
	"errors"
	"evbs/src/db"
	"evbs/src/models"
	"evbs/src/types"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

func feedbackHandlers(g *gin.RouterGroup) *gin.RouterGroup {
	g.
		POST("/events/:id/feedback", func(ctx *gin.Context) {
			var params types.SimpleRequestParams
			if err := ctx.ShouldBindUri(&params); err != nil {
				ctx.Status(http.StatusBadRequest)
				return
			}
			var body types.EventFeedbackRequestBody
			if err := ctx.ShouldBindJSON(&body); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			userId := ctx.GetUint("id")
			feedback := models.EventFeedback{
				EventID:        params.ID,
				UserID:         userId,
				Rating:         body.Rating,
				Comment:        body.Comment,
				Suggestions:    body.Suggestions,
				WouldRecommend: body.WouldRecommend,
				SubmittedAt:    time.Now(),
			}
			db := db.GetDb()
			err := db.Transaction(func(tx *gorm.DB) error {
				var event models.Event
				if err := tx.
					Where(&models.Event{ID: params.ID}).
					First(&event).
					Error; err != nil {
					return err
				}
				if event.Status != types.EVENT_COMPLETED {
					return errors.New("feedback is only accepted for completed events")
				}
				var attended int64
				if err := tx.
					Model(&models.Booking{}).
					Where(&models.Booking{EventID: params.ID, UserID: userId, Status: types.BOOKING_CONFIRMED}).
					Count(&attended).
					Error; err != nil {
					return err
				}
				if attended == 0 {
					return errors.New("feedback requires a confirmed booking for this event")
				}
				var existing int64
				if err := tx.
					Model(&models.EventFeedback{}).
					Where(&models.EventFeedback{EventID: params.ID, UserID: userId}).
					Count(&existing).
					Error; err != nil {
					return err
				}
				if existing > 0 {
					return errors.New("feedback already submitted for this event")
				}
				return tx.Create(&feedback).Error
			})
			if err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					ctx.Status(http.StatusNotFound)
					return
				}
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			ctx.JSON(http.StatusCreated, gin.H{"data": gin.H{"id": feedback.ID}})
		}).
		GET("/feedback", func(ctx *gin.Context) {
			userId := ctx.GetUint("id")
			var feedback []models.EventFeedback
			db := db.GetDb()
			if err := db.
				Where(&models.EventFeedback{UserID: userId}).
				Preload("Event").
				Order("submitted_at desc").
				Find(&feedback).
				Error; err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"data": feedback})
		}).
		GET("/events/:id/feedback", func(ctx *gin.Context) {
			var params types.SimpleRequestParams
			if err := ctx.ShouldBindUri(&params); err != nil {
				ctx.Status(http.StatusBadRequest)
				return
			}
			userId := ctx.GetUint("id")
			var feedback []models.EventFeedback
			var average float64
			db := db.GetDb()
			err := db.Transaction(func(tx *gorm.DB) error {
				var event models.Event
				if err := tx.
					Where(&models.Event{ID: params.ID}).
					First(&event).
					Error; err != nil {
					return err
				}
				if event.CreatedBy != userId {
					return errors.New("not enough permissions to perform this action")
				}
				if err := tx.
					Where(&models.EventFeedback{EventID: params.ID}).
					Order("submitted_at desc").
					Find(&feedback).
					Error; err != nil {
					return err
				}
				return tx.
					Model(&models.EventFeedback{}).
					Where(&models.EventFeedback{EventID: params.ID}).
					Select("coalesce(avg(rating), 0)").
					Scan(&average).
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
			ctx.JSON(http.StatusOK, gin.H{"data": gin.H{
				"event_id":       params.ID,
				"average_rating": average,
				"count":          len(feedback),
				"feedback":       feedback,
			}})
		})
	return g
}
