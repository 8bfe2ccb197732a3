package lib

import (
	"context"
	"encoding/json"
	"evbs/src/types"
	"fmt"
	"log"
	"os"

	"github.com/confluentinc/confluent-kafka-go/kafka"
)

func KafkaProduceMessage(clientId string, topic string, payload *types.JSONB) error {
	p, err := kafka.NewProducer(&kafka.ConfigMap{
		"bootstrap.servers": os.Getenv("KAFKA_BROKER"),
		"client.id":         clientId,
		"acks":              "all",
	})
	if err != nil {
		log.Printf("Error creating producer: %s\n", err.Error())
		return err
	}
	value, err := json.Marshal(payload)
	if err != nil {
		log.Printf("Error encoding payload: %s\n", err.Error())
		return err
	}
	err = p.Produce(&kafka.Message{
		TopicPartition: kafka.TopicPartition{Topic: &topic, Partition: kafka.PartitionAny},
		Value:          value,
	}, nil)
	if err != nil {
		log.Printf("Error producing to %s: %s\n", topic, err.Error())
		return err
	}
	return nil
}

// KafkaConsumer polls the given topics and hands every message body to the
// handler on its own goroutine.
func KafkaConsumer(groupId string, handler types.Handler, topics ...string) {
	log.Println("Initializing kafka Consumer...")
	master, err := kafka.NewConsumer(&kafka.ConfigMap{
		"bootstrap.servers": os.Getenv("KAFKA_BROKER"),
		"group.id":          groupId,
		"auto.offset.reset": "smallest",
		"retry.backoff.ms":  100,
	})
	if err != nil {
		log.Printf("Error on consumer: %s\n", err.Error())
		return
	}
	err = master.SubscribeTopics(topics, nil)
	if err != nil {
		log.Printf("Error subscribing to topics: %s\n", err.Error())
		return
	}
	go func() {
		log.Printf("[%s] waiting for messages...\n", groupId)
		run := true
		for run {
			ev := master.Poll(100)
			switch e := ev.(type) {
			case *kafka.Message:
				go handler(string(e.Value))
			case kafka.Error:
				fmt.Fprintf(os.Stderr, "%% Error: %v\n", e)
				run = false
			default:
			}
		}
		master.Close()
	}()
}

func KafkaCreateTopics(topics ...string) ([]kafka.TopicResult, error) {
	a, err := kafka.NewAdminClient(&kafka.ConfigMap{
		"bootstrap.servers": os.Getenv("KAFKA_BROKER"),
	})
	if err != nil {
		log.Printf("Error on AdminClient: %s\n", err.Error())
		return nil, err
	}
	topicsDef := []kafka.TopicSpecification{}
	for _, topic := range topics {
		topicsDef = append(topicsDef, kafka.TopicSpecification{
			Topic:         topic,
			NumPartitions: 10,
		})
	}
	result, err := a.CreateTopics(context.Background(), topicsDef)
	if err != nil {
		log.Printf("Error creating topics: %s\n", err.Error())
		return nil, err
	}
	return result, nil
}
