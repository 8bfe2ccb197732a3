package main

import (
	"context"
	"encoding/hex"
	"encoding/json"
	"errors"
	"evbs/src/booking"
	"evbs/src/db"
	"evbs/src/lib"
	"evbs/src/models"
	"evbs/src/types"
	"evbs/src/utils"
	"fmt"
	"log"
	"net/http"
	"os"
	"path"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/yeqown/go-qrcode"
	"gorm.io/gorm"
)

// ticketHandlers serves the e-ticket QR code for a confirmed booking. The
// code carries an encrypted payload so door staff can validate it offline.
func ticketHandlers(g *gin.RouterGroup) *gin.RouterGroup {
	g.
		GET("/bookings/:id/ticket", func(ctx *gin.Context) {
			var query struct {
				ShareLink bool `form:"share_link"`
			}
			if err := ctx.ShouldBindQuery(&query); err != nil {
				ctx.Status(http.StatusBadRequest)
				return
			}
			var params types.SimpleRequestParams
			if err := ctx.ShouldBindUri(&params); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			userId := ctx.GetUint("id")

			// The cache is keyed by booking id only, so ownership has to
			// be established before any cached ticket is served.
			var b models.Booking
			database := db.GetDb()
			err := database.Transaction(func(tx *gorm.DB) error {
				if err := tx.
					Where(&models.Booking{ID: params.ID}).
					Preload("Event").
					First(&b).
					Error; err != nil {
					return err
				}
				if b.UserID != userId {
					return booking.ErrAccessDenied
				}
				if b.Status != types.BOOKING_CONFIRMED {
					return errors.New("ticket is only available for confirmed bookings")
				}
				if b.Event != nil && b.Event.DateTime != nil && time.Now().After(*b.Event.DateTime) {
					return errors.New("ticket is no longer valid")
				}
				return nil
			})
			if err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					ctx.Status(http.StatusNotFound)
					return
				}
				if errors.Is(err, booking.ErrAccessDenied) {
					ctx.Status(http.StatusForbidden)
					return
				}
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}

			filename := fmt.Sprintf("eticketcode_%d", params.ID)
			wd, err := os.Getwd()
			if err != nil {
				log.Printf("Could not read working directory: %s\n", err.Error())
				ctx.Status(http.StatusBadRequest)
				return
			}
			tempdir := os.Getenv("TEMP_DIR")
			filepath := path.Join(wd, tempdir, fmt.Sprintf("%s.jpeg", filename))

			content := lib.CacheGet(context.Background(), filename)
			if content == "" {
				rawData := map[string]any{
					"bookingId": b.ID,
					"eventId":   b.EventID,
					"userId":    b.UserID,
					"seats":     b.Seats,
				}
				rawBytes, _ := json.Marshal(rawData)
				rawText := string(rawBytes)

				keyEnv := os.Getenv("API_QRC_SECRET")
				key, err := hex.DecodeString(keyEnv)
				if err != nil {
					log.Printf("Could not read key from string: %s\n", err.Error())
					ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
					return
				}
				encryptedMessage, err := utils.EncryptMessage(key, rawText)
				if err != nil {
					log.Printf("Error encrypting message: %s\n", err.Error())
					ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
					return
				}
				qrc, err := qrcode.New(encryptedMessage)
				if err != nil {
					ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
					return
				}
				if err = qrc.Save(filepath); err != nil {
					log.Printf("Could not save qrcode to file [%s]: %s\n", filepath, err.Error())
					ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
					return
				}
				shareURL := fmt.Sprintf("%s/share/%s", apiPrefix, filename)
				lib.CacheSetEx(context.Background(), filename, shareURL, 2*time.Hour)
				content = shareURL
			}

			if query.ShareLink {
				ctx.JSON(http.StatusOK, gin.H{"data": gin.H{"url": content}})
				return
			}
			ctx.FileAttachment(filepath, "eticket.jpeg")
		})
	return g
}
