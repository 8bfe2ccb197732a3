package common

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"

	"evbs/src/booking"
	"evbs/src/config"
	"evbs/src/lib"
	awslib "evbs/src/lib/aws"
	"evbs/src/lib/mailer"
	"evbs/src/models"
	"evbs/src/types"
	"evbs/src/utils"

	"github.com/tidwall/gjson"
)

// EmailNotifier queues booking and waitlist emails on the EmailsToSend
// pipeline. Delivery is best-effort: failures are logged and never bubble up
// into the booking transaction.
type EmailNotifier struct{}

func NewEmailNotifier() *EmailNotifier {
	return &EmailNotifier{}
}

func (n *EmailNotifier) send(to string, subject string, body string) {
	if to == "" {
		return
	}
	if err := mailer.NewMailerMessage(&lib.SendMailInput{
		From:     config.SMTP_FROM,
		FromName: "Events Team",
		To:       []string{to},
		Subject:  subject,
		Body:     body,
		Html:     true,
	}); err != nil {
		log.Printf("[MAILER] could not queue email to [%s]: %s\n", to, err.Error())
	}
}

func (n *EmailNotifier) BookingConfirmed(ctx context.Context, user *models.User, event *models.Event, b *models.Booking) {
	n.send(user.Email,
		fmt.Sprintf("Booking Confirmed: %s", event.Title),
		fmt.Sprintf(`
		<p>Hi %s,</p>
		<p>Your booking for <b>%s</b> is confirmed.</p>
		<p>Seats: %d<br>Booking reference: %d</p>
		<p>See you there!</p>
		`, user.Name, event.Title, b.Seats, b.ID))
}

func (n *EmailNotifier) BookingCanceled(ctx context.Context, user *models.User, event *models.Event, b *models.Booking) {
	n.send(user.Email,
		fmt.Sprintf("Booking Canceled: %s", event.Title),
		fmt.Sprintf(`
		<p>Hi %s,</p>
		<p>Your booking for <b>%s</b> (%d seat(s)) has been canceled.</p>
		`, user.Name, event.Title, b.Seats))
}

func (n *EmailNotifier) WaitlistJoined(ctx context.Context, user *models.User, event *models.Event, entry *models.WaitlistEntry) {
	n.send(user.Email,
		fmt.Sprintf("Waitlist Confirmation: %s", event.Title),
		fmt.Sprintf(`
		<p>Hi %s,</p>
		<p>You are on the waitlist for <b>%s</b> with %d requested seat(s).</p>
		<p>We will let you know as soon as seats free up.</p>
		`, user.Name, event.Title, entry.RequestedSeats))
}

func (n *EmailNotifier) WaitlistPromoted(ctx context.Context, report *booking.PromotionReport) {
	for _, p := range report.PromotedUsers {
		n.send(p.UserEmail,
			fmt.Sprintf("You're In: %s", p.EventTitle),
			fmt.Sprintf(`
			<p>Hi %s,</p>
			<p>Good news! Seats opened up for <b>%s</b> and your waitlist request
			was promoted to a confirmed booking.</p>
			<p>Seats: %d<br>Booking reference: %d</p>
			`, p.UserName, p.EventTitle, p.SeatsPromoted, p.BookingID))
	}
}

func sendMailFromPayload(spayload string) {
	from := gjson.Get(spayload, "from").String()
	fromName := gjson.Get(spayload, "from-name").String()

	toArr := gjson.Get(spayload, "to").Array()
	to := make([]string, 0)
	for _, item := range toArr {
		to = append(to, item.String())
	}
	ccArr := gjson.Get(spayload, "cc").Array()
	cc := make([]string, 0)
	for _, item := range ccArr {
		cc = append(cc, item.String())
	}
	bccArr := gjson.Get(spayload, "bcc").Array()
	bcc := make([]string, 0)
	for _, item := range bccArr {
		bcc = append(bcc, item.String())
	}

	var body types.JSONB
	if err := json.Unmarshal([]byte(spayload), &body); err != nil {
		log.Printf("error deserializing json: %s\n", err.Error())
		return
	}
	subject, _ := body["subject"].(string)
	html, _ := body["html"].(bool)
	text, _ := body["body"].(string)

	go func() {
		if os.Getenv("MAIL_PROVIDER") == "ses" {
			awslib.SESSendSimpleMessage(from, to, subject, text)
			return
		}
		input := &lib.SendMailInput{
			From:     from,
			FromName: fromName,
			To:       to,
			Cc:       cc,
			Bcc:      bcc,
			Subject:  subject,
			Body:     text,
			Html:     html,
		}
		if err := lib.SendMail(input); err != nil {
			log.Printf("[MAILER] error sending email: %s\n", err.Error())
			return
		}
		log.Printf("[MAILER]: an email has been sent to %s\n", to)
	}()
}

func KafkaEmailsToSendConsumer(spayload string) {
	if !gjson.Valid(spayload) {
		log.Println("Received invalid json body. Aborting")
		return
	}
	sendMailFromPayload(spayload)
}

func EmailsToSendConsumer() {
	qname := utils.WithSuffix("EmailsToSend")
	log.Printf("%s: Listening for messages...", qname)
	c := awslib.NewSQSConsumer(qname, func(spayload string) {
		if !gjson.Valid(spayload) {
			log.Printf("[%s]: Received invalid json body. Aborting", qname)
			return
		}
		sendMailFromPayload(spayload)
	})
	c.Listen()
}

// EventsToCompleteConsumer flips published events to completed when their
// scheduled completion message arrives.
func EventsToCompleteConsumer(spayload string) {
	if !gjson.Valid(spayload) {
		log.Println("Received invalid json body. Aborting")
		return
	}
	id := gjson.Get(spayload, "id").Uint()
	if id == 0 {
		log.Println("Message has no event id. Aborting")
		return
	}
	if err := utils.CompleteEvent(uint(id)); err != nil {
		log.Printf("Error completing event %d: %s\n", id, err.Error())
		return
	}
	log.Printf("Event %d marked completed\n", id)
}
