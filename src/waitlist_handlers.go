package main

import (
	"evbs/src/types"
	"net/http"

	"github.com/gin-gonic/gin"
)

func waitlistHandlers(g *gin.RouterGroup) *gin.RouterGroup {
	g.
		POST("/waitlist", func(ctx *gin.Context) {
			var body types.JoinWaitlistRequestBody
			if err := ctx.ShouldBindJSON(&body); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			userId := ctx.GetUint("id")
			svc := getBookingService()
			id, err := svc.JoinWaitlist(ctx, body.EventID, userId, body.Seats)
			if err != nil {
				abortWithError(ctx, err)
				return
			}
			ctx.JSON(http.StatusCreated, gin.H{"data": gin.H{"id": id, "status": types.WAITLIST_WAITING}})
		}).
		GET("/waitlist", func(ctx *gin.Context) {
			userId := ctx.GetUint("id")
			svc := getBookingService()
			entries, err := svc.UserWaitlist(ctx, userId)
			if err != nil {
				abortWithError(ctx, err)
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"data": entries})
		}).
		DELETE("/waitlist/:id", func(ctx *gin.Context) {
			var params types.SimpleRequestParams
			if err := ctx.ShouldBindUri(&params); err != nil {
				ctx.Status(http.StatusBadRequest)
				return
			}
			userId := ctx.GetUint("id")
			svc := getBookingService()
			if err := svc.LeaveWaitlist(ctx, params.ID, userId); err != nil {
				abortWithError(ctx, err)
				return
			}
			ctx.Status(http.StatusNoContent)
		})
	return g
}
