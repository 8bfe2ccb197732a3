package main

import (
	"evbs/src/types"
	"net/http"

	"github.com/gin-gonic/gin"
)

func bookingHandlers(g *gin.RouterGroup) *gin.RouterGroup {
	g.
		POST("/bookings", func(ctx *gin.Context) {
			var body types.BookSeatsRequestBody
			if err := ctx.ShouldBindJSON(&body); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			userId := ctx.GetUint("id")
			svc := getBookingService()
			id, err := svc.BookSeats(ctx, body.EventID, userId, body.Seats)
			if err != nil {
				abortWithError(ctx, err)
				return
			}
			ctx.JSON(http.StatusCreated, gin.H{"data": gin.H{"id": id, "status": types.BOOKING_CONFIRMED}})
		}).
		GET("/bookings", func(ctx *gin.Context) {
			userId := ctx.GetUint("id")
			svc := getBookingService()
			bookings, err := svc.UserBookings(ctx, userId)
			if err != nil {
				abortWithError(ctx, err)
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"data": bookings})
		}).
		DELETE("/bookings/:id", func(ctx *gin.Context) {
			var params types.SimpleRequestParams
			if err := ctx.ShouldBindUri(&params); err != nil {
				ctx.Status(http.StatusBadRequest)
				return
			}
			userId := ctx.GetUint("id")
			svc := getBookingService()
			report, err := svc.CancelBooking(ctx, params.ID, userId)
			if err != nil {
				abortWithError(ctx, err)
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"data": gin.H{
				"id":        params.ID,
				"status":    types.BOOKING_CANCELED,
				"promotion": report,
			}})
		})
	return g
}
