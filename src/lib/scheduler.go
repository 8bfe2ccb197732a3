package lib

import (
	"context"
	"evbs/src/config"
	"evbs/src/types"
	"log"
	"time"

	"github.com/go-co-op/gocron/v2"
	"github.com/google/uuid"
)

type Key string

const (
	varsKey Key = "vars"
)

var scheduler gocron.Scheduler

func NewScheduler(s gocron.Scheduler) {
	scheduler = s
}

func GetScheduler() (gocron.Scheduler, error) {
	if scheduler != nil {
		return scheduler, nil
	}
	sched, err := gocron.NewScheduler()
	if err != nil {
		log.Printf("Error initializing Scheduler: %s\n", err.Error())
		return nil, err
	}
	scheduler = sched
	numJobs := len(sched.Jobs())
	log.Printf("Jobs in queue: %d\n", numJobs)
	return sched, nil
}

func CreateOneTimeCronJob(def gocron.JobDefinition, task gocron.Task) (*string, error) {
	sched, err := GetScheduler()
	if err != nil {
		log.Println("An error has occurred. Check logs for info")
		return nil, err
	}
	j, err := sched.NewJob(
		def,
		task,
	)
	if err != nil {
		return nil, err
	}
	id := j.ID().String()
	log.Printf("Job: %s %s\n", id, j.Name())
	return &id, nil
}

// NewScheduledJob queues a one-shot job that produces a kafka message when it
// fires. vars carries the producer client id and topic.
func NewScheduledJob(startDate time.Time, vars map[string]string, p types.JSONB) (*uuid.UUID, error) {
	s, err := GetScheduler()
	if err != nil {
		return nil, err
	}
	ctx := context.WithValue(context.Background(), varsKey, vars)
	j, err := s.NewJob(
		gocron.OneTimeJob(gocron.OneTimeJobStartDateTime(startDate)),
		gocron.NewTask(func(ctx context.Context, p types.JSONB) {
			log.Println("Running scheduled task...")
			KafkaTaskHandlerFunc(ctx, &p)
		}, ctx, p),
	)
	if err != nil {
		log.Printf("Error creating job: %s\n", err.Error())
		return nil, err
	}
	sRunsAt := startDate.Format(config.TIME_PARSE_FORMAT)
	log.Printf("New Job scheduled on: %s %s\n", j.ID().String(), sRunsAt)
	jid := j.ID()
	return &jid, nil
}

func KafkaTaskHandlerFunc(ctx context.Context, p *types.JSONB) {
	vars := ctx.Value(varsKey).(map[string]string)
	clientId := vars["clientId"]
	topic := vars["topic"]
	go KafkaProduceMessage(clientId, topic, p)
}
