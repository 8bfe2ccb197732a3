package main

import (
	"errors"
	"evbs/src/boot"
	"evbs/src/common"
	"evbs/src/config"
	"evbs/src/db"
	"evbs/src/middlewares"
	"evbs/src/storage"
	"evbs/src/types"
	"fmt"
	"log"
	"net/http"
	"os"
	"path"
	"regexp"
	"strconv"
	"time"

	"evbs/src/booking"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/golang-jwt/jwt/v5"
	"github.com/joho/godotenv"
	_ "github.com/joho/godotenv/autoload"
)

var jwtKey = []byte(os.Getenv("JWT_SECRET"))

const (
	apiPrefix string = "/api/v1"
)

var eventDateTimeValidatorFunc validator.Func = func(fl validator.FieldLevel) bool {
	date, ok := fl.Field().Interface().(string)
	datetime, err := time.Parse(config.TIME_PARSE_FORMAT, date)
	if err != nil {
		return false
	}
	if ok {
		today := time.Now()
		if today.After(datetime) {
			return false
		}
	}
	return true
}

var ltfield validator.Func = func(fl validator.FieldLevel) bool {
	date, ok := fl.Field().Interface().(string)
	datetime, err := time.Parse(config.TIME_PARSE_FORMAT, date)
	if err != nil {
		return false
	}
	field := fl.Parent().FieldByName(fl.Param())
	fieldValue := field.Interface().(string)
	fielddatetime, err := time.Parse(config.TIME_PARSE_FORMAT, fieldValue)
	if err != nil {
		return false
	}
	if ok {
		if datetime.After(fielddatetime) {
			return false
		}
	}
	return true
}

var bookingSvc *booking.Service

// getBookingService wires the facade to the gorm store and the email
// notifier. Tests swap the db connection through db.NewDB before first use.
func getBookingService() *booking.Service {
	if bookingSvc == nil {
		bookingSvc = booking.NewService(storage.New(db.GetDb()), common.NewEmailNotifier())
	}
	return bookingSvc
}

func statusForError(err error) int {
	var inv *booking.InvariantError
	switch {
	case errors.Is(err, booking.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, booking.ErrAccessDenied):
		return http.StatusForbidden
	case errors.Is(err, booking.ErrInsufficientSeats):
		// not enough seats is a conflict with current inventory, the
		// client can retry through the waitlist
		return http.StatusConflict
	case errors.As(err, &inv):
		return http.StatusInternalServerError
	default:
		return http.StatusBadRequest
	}
}

func abortWithError(ctx *gin.Context, err error) {
	status := statusForError(err)
	if status == http.StatusInternalServerError {
		log.Printf("Internal error: %s\n", err.Error())
		ctx.Status(status)
		return
	}
	ctx.JSON(status, gin.H{"error": err.Error()})
}

func generateJWT(email string, id uint) (string, error) {
	claims := types.Claims{
		Username: email,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   fmt.Sprint(id),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(24 * time.Hour)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, &claims)
	return token.SignedString(jwtKey)
}

func setupRouter() *gin.Engine {
	router := gin.Default()
	router.Use(middlewares.SecureHeaders)
	router.GET("/", func(ctx *gin.Context) {
		ctx.JSON(http.StatusOK, "ok")
	})
	return router
}

func maintenanceModeMiddleware(g *gin.Engine) *gin.Engine {
	g.Use(func(ctx *gin.Context) {
		mm := os.Getenv("MAINTENANCE_MODE")
		atoi, err := strconv.ParseBool(mm)
		if err != nil || atoi {
			err := errors.New("server is under maintenance")
			log.Println(err.Error())
			ctx.AbortWithStatusJSON(http.StatusServiceUnavailable, err.Error())
			return
		}
	})
	return g
}

func apiv1Group(g *gin.Engine) *gin.RouterGroup {
	apiv1 := g.Group(apiPrefix)
	return apiv1
}

func publicRoutes(g *gin.Engine) *gin.RouterGroup {
	apiv1 := apiv1Group(g)
	apiv1.
		GET("/share/:filename", func(ctx *gin.Context) {
			apiEnv := os.Getenv("API_ENV")
			if apiEnv != "local" {
				ctx.Status(http.StatusNotFound)
				return
			}
			var params struct {
				Filename string `uri:"filename" binding:"required"`
			}
			if err := ctx.ShouldBindUri(&params); err != nil {
				ctx.Status(http.StatusBadRequest)
				return
			}
			assets := os.Getenv("TEMP_DIR")
			filePath := path.Join(assets, fmt.Sprintf("%s.jpeg", params.Filename))
			ctx.File(filePath)
		})
	return apiv1
}

func main() {
	apiEnv := os.Getenv("API_ENV")
	if apiEnv == "local" {
		cwd, _ := os.Getwd()
		if err := godotenv.Load(path.Join(cwd, ".env")); err != nil {
			panic(err)
		}
	}

	boot.InitDb()
	boot.InitScheduler()
	go boot.InitBroker()

	router := setupRouter()

	appHost := os.Getenv("APP_HOST")
	if apiEnv == "local" {
		router.Use(cors.Default())
	} else {
		cc := cors.DefaultConfig()
		cc.AllowMethods = append(cc.AllowMethods, "GET", "POST", "PATCH", "PUT", "DELETE", "HEAD")
		cc.AllowHeaders = append(cc.AllowHeaders, "Origin", "Authorization")
		cc.AllowOriginFunc = func(origin string) bool {
			match, _ := regexp.MatchString(appHost, origin)
			return match
		}
		cc.AllowCredentials = true
		cc.AllowAllOrigins = false
		router.Use(cors.New(cc))
	}

	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		v.RegisterValidation("bookabledate", eventDateTimeValidatorFunc)
		v.RegisterValidation("ltdate", ltfield)
	}

	router = maintenanceModeMiddleware(router)

	publicRoutes(router)

	authorized := router.Group(apiPrefix)
	authorized.Use(middlewares.AuthMiddleware)
	{
		authorized = eventHandlers(authorized)
		authorized = bookingHandlers(authorized)
		authorized = ticketHandlers(authorized)
		authorized = waitlistHandlers(authorized)
		authorized = feedbackHandlers(authorized)
	}

	admin := router.Group(apiPrefix)
	admin.Use(middlewares.AuthMiddleware, middlewares.AdminOnly)
	{
		admin = adminEventHandlers(admin)
	}

	if err := router.Run(":9090"); err != nil {
		log.Fatalf("Failed to start server: %s", err)
	}
}
