package gmail

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"mime"
	"sort"
	"strings"

	gmail "google.golang.org/api/gmail/v1"

	"github.com/teemow/workday/internal/instrumentation"
)

// EmailMessage represents an email to be sent
type EmailMessage struct {
	To      []string
	Cc      []string
	Bcc     []string
	Subject string
	Body    string
	IsHTML  bool

	// Headers are extra headers such as Auto-Submitted.
	Headers map[string]string
}

// SendEmail sends an email and returns the ID of the sent message.
func (c *Client) SendEmail(ctx context.Context, msg *EmailMessage) (string, error) {
	if len(msg.To) == 0 {
		return "", errors.New("at least one recipient is required")
	}
	if msg.Subject == "" {
		return "", errors.New("subject is required")
	}
	if msg.Body == "" {
		return "", errors.New("body is required")
	}

	raw := buildRaw(msg, nil)
	return c.send(ctx, &gmail.Message{Raw: raw}, "failed to send email")
}

// Reply answers orig in its thread. The reply goes to the Reply-To address
// when present, otherwise to the sender. The subject is prefixed with "Re: "
// unless it already is.
func (c *Client) Reply(ctx context.Context, orig Message, body string, headers map[string]string) (string, error) {
	if orig.ThreadID == "" {
		return "", errors.New("threadID is required")
	}
	if body == "" {
		return "", errors.New("body is required")
	}

	to := orig.ReplyTo
	if to == "" {
		to = orig.From
	}
	if to == "" {
		return "", errors.New("original message has no From header")
	}

	threading := map[string]string{}
	if orig.MessageID != "" {
		threading["In-Reply-To"] = orig.MessageID
		references := orig.MessageID
		if orig.References != "" {
			references = orig.References + " " + orig.MessageID
		}
		threading["References"] = references
	}

	msg := &EmailMessage{
		To:      []string{to},
		Subject: ReplySubject(orig.Subject),
		Body:    body,
		Headers: headers,
	}
	raw := buildRaw(msg, threading)
	return c.send(ctx, &gmail.Message{Raw: raw, ThreadId: orig.ThreadID}, "failed to send reply")
}

// ReplySubject prefixes subject with "Re: " once.
func ReplySubject(subject string) string {
	if strings.HasPrefix(strings.ToLower(subject), "re:") {
		return subject
	}
	return "Re: " + subject
}

func (c *Client) send(ctx context.Context, msg *gmail.Message, errPrefix string) (string, error) {
	var sent *gmail.Message
	err := c.track(ctx, instrumentation.OperationSend, func(ctx context.Context) error {
		var err error
		sent, err = c.svc.Messages.Send(userID, msg).Context(ctx).Do()
		return err
	})
	if err != nil {
		return "", fmt.Errorf("%s: %w", errPrefix, err)
	}
	return sent.Id, nil
}

// buildRaw renders msg in RFC 2822 format, base64url encoded for the API.
func buildRaw(msg *EmailMessage, threading map[string]string) string {
	var b strings.Builder

	writeHeader := func(name, value string) {
		b.WriteString(name)
		b.WriteString(": ")
		b.WriteString(value)
		b.WriteString("\r\n")
	}

	writeHeader("To", strings.Join(msg.To, ", "))
	if len(msg.Cc) > 0 {
		writeHeader("Cc", strings.Join(msg.Cc, ", "))
	}
	if len(msg.Bcc) > 0 {
		writeHeader("Bcc", strings.Join(msg.Bcc, ", "))
	}
	writeHeader("Subject", encodeRFC2047(msg.Subject))

	for _, name := range []string{"In-Reply-To", "References"} {
		if v := threading[name]; v != "" {
			writeHeader(name, v)
		}
	}

	extra := make([]string, 0, len(msg.Headers))
	for name := range msg.Headers {
		extra = append(extra, name)
	}
	sort.Strings(extra)
	for _, name := range extra {
		writeHeader(name, encodeRFC2047(msg.Headers[name]))
	}

	if msg.IsHTML {
		writeHeader("Content-Type", `text/html; charset="UTF-8"`)
	} else {
		writeHeader("Content-Type", `text/plain; charset="UTF-8"`)
	}
	writeHeader("MIME-Version", "1.0")
	b.WriteString("\r\n")
	b.WriteString(msg.Body)

	return base64.URLEncoding.EncodeToString([]byte(b.String()))
}

// encodeRFC2047 encodes non-ASCII header values such as umlauts in subjects.
func encodeRFC2047(s string) string {
	for _, r := range s {
		if r > 127 {
			return mime.BEncoding.Encode("UTF-8", s)
		}
	}
	return s
}
