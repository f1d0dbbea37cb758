package gmail

import (
	"encoding/base64"
	"net/mail"
	"slices"
	"strings"
	"time"

	gmail "google.golang.org/api/gmail/v1"
)

// System labels used by workday.
const (
	LabelInbox  = "INBOX"
	LabelUnread = "UNREAD"
)

// Message is a decoded Gmail message.
type Message struct {
	ID       string
	ThreadID string
	Labels   []string
	Snippet  string
	Received time.Time

	// Headers
	From          string
	ReplyTo       string
	To            string
	Subject       string
	MessageID     string
	References    string
	AutoSubmitted string
	Precedence    string
	ListID        string

	// Body is the text/plain body, or the snippet when the message has none.
	Body string
}

// Unread reports whether the message carries the UNREAD label.
func (m Message) Unread() bool {
	return slices.Contains(m.Labels, LabelUnread)
}

// Sender returns the display name and address of the From header. An
// unparsable header is returned verbatim as the address.
func (m Message) Sender() (name, address string) {
	addr, err := mail.ParseAddress(m.From)
	if err != nil {
		return "", strings.TrimSpace(m.From)
	}
	return addr.Name, addr.Address
}

// Text returns subject, snippet and body joined for searching.
func (m Message) Text() string {
	return m.Subject + " " + m.Snippet + " " + m.Body
}

// HeaderValue extracts a header value from a Gmail message. Header names are
// matched case-insensitively.
func HeaderValue(m *gmail.Message, header string) string {
	if m == nil || m.Payload == nil {
		return ""
	}
	for _, h := range m.Payload.Headers {
		if strings.EqualFold(h.Name, header) {
			return h.Value
		}
	}
	return ""
}

func toMessage(m *gmail.Message) Message {
	if m == nil {
		return Message{}
	}

	msg := Message{
		ID:            m.Id,
		ThreadID:      m.ThreadId,
		Labels:        m.LabelIds,
		Snippet:       m.Snippet,
		From:          HeaderValue(m, "From"),
		ReplyTo:       HeaderValue(m, "Reply-To"),
		To:            HeaderValue(m, "To"),
		Subject:       HeaderValue(m, "Subject"),
		MessageID:     HeaderValue(m, "Message-ID"),
		References:    HeaderValue(m, "References"),
		AutoSubmitted: HeaderValue(m, "Auto-Submitted"),
		Precedence:    HeaderValue(m, "Precedence"),
		ListID:        HeaderValue(m, "List-Id"),
	}
	if m.InternalDate > 0 {
		msg.Received = time.UnixMilli(m.InternalDate)
	}

	msg.Body = plainBody(m.Payload)
	if msg.Body == "" {
		msg.Body = m.Snippet
	}
	return msg
}

// plainBody returns the first decodable text/plain part.
func plainBody(payload *gmail.MessagePart) string {
	var body string
	walkParts(payload, func(part *gmail.MessagePart) bool {
		if part.MimeType != "text/plain" || part.Body == nil || part.Body.Data == "" {
			return true
		}
		decoded, ok := decodeBody(part.Body.Data)
		if !ok {
			return true
		}
		body = decoded
		return false
	})
	return body
}

func decodeBody(data string) (string, bool) {
	for _, enc := range []*base64.Encoding{base64.URLEncoding, base64.RawURLEncoding, base64.StdEncoding} {
		if decoded, err := enc.DecodeString(data); err == nil {
			return string(decoded), true
		}
	}
	return "", false
}

// walkParts visits part and its children depth first until fn returns false.
func walkParts(part *gmail.MessagePart, fn func(*gmail.MessagePart) bool) bool {
	if part == nil {
		return true
	}
	if !fn(part) {
		return false
	}
	for _, sub := range part.Parts {
		if !walkParts(sub, fn) {
			return false
		}
	}
	return true
}
