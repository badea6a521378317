package utils

import (
	"bus_portal/config"
	"bytes"
	"fmt"
	"html/template"
	"io"
	"log"
	"strconv"

	"gopkg.in/gomail.v2"
)

type TicketMailData struct {
	QrCode        string
	PassengerName string
	Route         string
	Departure     string
	SeatNumber    string
	Price         float64
	RefundAmount  float64
	CancelledAt   string
}

const (
	TemplateTicketConfirmation = "templates/ticket_confirmation.html"
	TemplateTicketCancelled    = "templates/ticket_cancelled.html"
)

// SendTicketEmail renders tmplPath and mails it with the boarding QR inlined.
// It does nothing when SMTP is not configured.
func SendTicketEmail(to, subject, tmplPath string, data TicketMailData) {
	host := config.Config("SMTP_HOST")
	if host == "" || to == "" {
		return
	}

	go func() {
		tmpl, err := template.ParseFiles(tmplPath)
		if err != nil {
			log.Printf("Failed to load email template %s: %v", tmplPath, err)
			return
		}
		var body bytes.Buffer
		if err := tmpl.Execute(&body, data); err != nil {
			log.Printf("Failed to render email template %s: %v", tmplPath, err)
			return
		}

		port, err := strconv.Atoi(config.ConfigDefault("SMTP_PORT", "587"))
		if err != nil {
			port = 587
		}

		m := gomail.NewMessage()
		m.SetHeader("From", config.Config("SMTP_FROM"))
		m.SetHeader("To", to)
		m.SetHeader("Subject", subject)
		m.SetBody("text/html", body.String())

		if qrBytes, err := GenerateQRCode(data.QrCode, 300); err == nil {
			m.Embed("boarding.png", gomail.SetCopyFunc(func(w io.Writer) error {
				_, err := w.Write(qrBytes)
				return err
			}), gomail.SetHeader(map[string][]string{
				"Content-Type":        {"image/png"},
				"Content-ID":          {"<boarding_qr>"},
				"Content-Disposition": {"inline"},
			}))
		}

		d := gomail.NewDialer(host, port, config.Config("SMTP_USERNAME"), config.Config("SMTP_PASSWORD"))
		if err := d.DialAndSend(m); err != nil {
			log.Printf("Failed to send email to %s: %v", to, err)
			return
		}
		log.Printf("Sent %q to %s", subject, to)
	}()
}

func TicketSubject(prefix, code string) string {
	return fmt.Sprintf("%s - %s", prefix, code)
}
