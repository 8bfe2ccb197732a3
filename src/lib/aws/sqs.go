package aws

import (
	"context"
	"evbs/src/lib"
	"evbs/src/types"
	"log"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
	sqstypes "github.com/aws/aws-sdk-go-v2/service/sqs/types"
)

type SQSConsumer struct {
	Name    string
	handler *types.Handler
}

func NewSQSConsumer(queue string, handler types.Handler) *SQSConsumer {
	new := SQSConsumer{
		Name:    queue,
		handler: &handler,
	}
	return &new
}

func (s *SQSConsumer) Listen() {
	go func() {
		qname := s.Name
		client := lib.AWSGetSQSClient()
		qurl, err := client.GetQueueUrl(context.TODO(), &sqs.GetQueueUrlInput{
			QueueName: aws.String(qname),
		})
		if err != nil {
			log.Printf("Failed to retrieve queue URL for %s: %s\n", qname, err.Error())
			return
		}
		log.Printf("%s: Listening for messages...", qname)
		messagesChan := make(chan *sqstypes.Message, 5)
		go func(chn chan<- *sqstypes.Message) {
			for {
				output, err := client.ReceiveMessage(context.Background(), &sqs.ReceiveMessageInput{
					QueueUrl:            qurl.QueueUrl,
					WaitTimeSeconds:     20,
					MaxNumberOfMessages: 10,
				})
				if err != nil {
					// transient receive errors must not kill the consumer
					log.Printf("[%s] Error receiving messages: %s\n", qname, err.Error())
					time.Sleep(5 * time.Second)
					continue
				}
				for _, m := range output.Messages {
					chn <- &m
				}
			}
		}(messagesChan)

		for m := range messagesChan {
			body := strings.Clone(*m.Body)
			h := *s.handler
			go h(body)
			go lib.SQSDeleteMessage(client, qurl.QueueUrl, m)
		}
	}()
}
