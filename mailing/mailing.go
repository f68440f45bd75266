package mailing

import (
	"bytes"
	"context"
	"fmt"
	htmltemplate "html/template"
	"log/slog"
	texttemplate "text/template"

	"github.com/koligo/koligo/types"
)

type Sender interface {
	Send(ctx context.Context, msg Message) error
}

type Message struct {
	To      string
	Subject string
	HTML    string
	Text    string
}

// Log is a Sender that only logs, used when no mail provider is configured.
type Log struct {
	Logger *slog.Logger
}

func (l *Log) Send(ctx context.Context, msg Message) error {
	l.Logger.InfoContext(ctx, "email not sent", "to", msg.To, "subject", msg.Subject)
	return nil
}

var notificationHTML = htmltemplate.Must(htmltemplate.New("notification").Parse(`<!DOCTYPE html>
<html>
<body>
	<h1>{{.Title}}</h1>
	{{with .Message}}<p>{{.}}</p>{{end}}
	{{with .URL}}<p><a href="{{.}}">Open in KoliGo</a></p>{{end}}
</body>
</html>
`))

var notificationText = texttemplate.Must(texttemplate.New("notification").Parse(`{{.Title}}
{{with .Message}}
{{.}}
{{end}}{{with .URL}}
{{.}}
{{end}}`))

type notificationData struct {
	Title   string
	Message string
	URL     string
}

// NotificationMessage renders the email for a notification.
func NotificationMessage(to, baseURL string, n types.Notification) (Message, error) {
	data := notificationData{
		Title:   n.Title,
		Message: n.Message,
	}
	if n.Link != nil {
		data.URL = baseURL + *n.Link
	}

	var html, text bytes.Buffer
	if err := notificationHTML.Execute(&html, data); err != nil {
		return Message{}, fmt.Errorf("execute notification html template: %w", err)
	}

	if err := notificationText.Execute(&text, data); err != nil {
		return Message{}, fmt.Errorf("execute notification text template: %w", err)
	}

	return Message{
		To:      to,
		Subject: "KoliGo: " + n.Title,
		HTML:    html.String(),
		Text:    text.String(),
	}, nil
}
