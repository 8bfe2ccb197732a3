package boot

import (
	"evbs/src/common"
	"evbs/src/db"
	"evbs/src/lib"
	"evbs/src/models"
	"evbs/src/utils"
	"log"
	"os"
	"time"

	"github.com/go-co-op/gocron/v2"
	"gorm.io/gorm"
)

func InitDb() *gorm.DB {
	db := db.GetDb()

	err := db.AutoMigrate(
		&models.User{},
		&models.Event{},
		&models.Booking{},
		&models.WaitlistEntry{},
		&models.EventFeedback{},
	)
	if err != nil {
		log.Fatalf("error migration: %s", err.Error())
	}

	return db
}

func InitBroker() {
	emailQueue := utils.WithSuffix("EmailsToSend")
	go lib.KafkaCreateTopics(emailQueue, "EventsToComplete")
	if os.Getenv("API_ENV") == "local" {
		lib.KafkaConsumer("emails", common.KafkaEmailsToSendConsumer, emailQueue)
	} else {
		common.EmailsToSendConsumer()
	}
	lib.KafkaConsumer("events_complete", common.EventsToCompleteConsumer, "EventsToComplete")
}

func InitScheduler() {
	sched, err := lib.GetScheduler()
	if err != nil {
		log.Println("An error has occurred. Check logs for info")
		return
	}
	j, err := sched.NewJob(
		gocron.OneTimeJob(gocron.OneTimeJobStartDateTime(time.Now().Add(5*time.Minute))),
		gocron.NewTask(func() {
			log.Println("Scheduler heartbeat")
		}),
	)
	if err != nil {
		log.Printf("Error running job: %s\n", err.Error())
		return
	}
	jobsWaitingInQueue := len(sched.Jobs())
	log.Println("Jobs in queue:", jobsWaitingInQueue)
	log.Printf("Job ID: %s %s\n", j.Name(), j.ID().String())
	sched.Start()
}

func StopScheduler() {
	sched, err := lib.GetScheduler()
	if err != nil {
		log.Println("Error retrieving Scheduler. Check logs for info")
		return
	}
	err = sched.Shutdown()
	if err != nil {
		log.Println("An error has occurred while stopping Scheduler. Check logs for info")
		return
	}
}
