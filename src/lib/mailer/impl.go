package mailer

import (
	"encoding/json"
	"evbs/src/lib"
	"evbs/src/types"
	"evbs/src/utils"
	"fmt"
	"os"
)

// NewMailerMessage queues an outgoing email on the EmailsToSend pipeline. In
// local environments the message also goes through kafka so the local
// consumer can pick it up without AWS access.
func NewMailerMessage(input *lib.SendMailInput) error {
	emailQueue := os.Getenv("EMAIL_QUEUE")
	apiEnv := os.Getenv("API_ENV")
	emailBody := &types.JSONB{
		"from":      input.From,
		"from-name": input.FromName,
		"to":        input.To,
		"cc":        input.Cc,
		"bcc":       input.Bcc,
		"body":      input.Body,
		"html":      input.Html,
		"subject":   input.Subject,
	}
	if apiEnv == "local" {
		if err := lib.KafkaProduceMessage("emails", utils.WithSuffix(emailQueue), emailBody); err != nil {
			return fmt.Errorf("error sending message to queue: %s", err.Error())
		}
		return nil
	}
	body, err := json.Marshal(&emailBody)
	if err != nil {
		return err
	}
	if err := lib.SQSProduceMessage(utils.WithSuffix(emailQueue), string(body)); err != nil {
		return fmt.Errorf("error sending message to queue: %s", err.Error())
	}
	return nil
}
