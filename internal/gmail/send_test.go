package gmail

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	gmail "google.golang.org/api/gmail/v1"
)

// captureSend returns a client whose sent messages are decoded into got.
func captureSend(t *testing.T, got *gmail.Message, raw *string) *Client {
	return newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, messagesPath+"/send", r.URL.Path)

		require.NoError(t, json.NewDecoder(r.Body).Decode(got))
		decoded, err := base64.URLEncoding.DecodeString(got.Raw)
		require.NoError(t, err)
		*raw = string(decoded)

		writeJSON(t, w, map[string]string{"id": "sent-1"})
	})
}

func TestSendEmail(t *testing.T) {
	var got gmail.Message
	var raw string
	client := captureSend(t, &got, &raw)

	id, err := client.SendEmail(context.Background(), &EmailMessage{
		To:      []string{"me@example.com"},
		Subject: "Reminder: Deadline: Bericht für März",
		Body:    "This is an automated reminder.",
	})
	require.NoError(t, err)
	assert.Equal(t, "sent-1", id)
	assert.Empty(t, got.ThreadId)

	assert.Contains(t, raw, "To: me@example.com\r\n")
	assert.Contains(t, raw, "Subject: =?UTF-8?b?")
	assert.Contains(t, raw, "Content-Type: text/plain; charset=\"UTF-8\"\r\n")
	assert.True(t, strings.HasSuffix(raw, "\r\n\r\nThis is an automated reminder."))
}

func TestSendEmail_Validation(t *testing.T) {
	client := &Client{}

	tests := []struct {
		name string
		msg  EmailMessage
		want string
	}{
		{"no recipient", EmailMessage{Subject: "s", Body: "b"}, "recipient"},
		{"no subject", EmailMessage{To: []string{"a@example.com"}, Body: "b"}, "subject"},
		{"no body", EmailMessage{To: []string{"a@example.com"}, Subject: "s"}, "body"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := client.SendEmail(context.Background(), &tt.msg)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestReply(t *testing.T) {
	var got gmail.Message
	var raw string
	client := captureSend(t, &got, &raw)

	orig := Message{
		ID:         "m1",
		ThreadID:   "t1",
		From:       "Jane Doe <jane@example.com>",
		Subject:    "Project status",
		MessageID:  "<m1@example.com>",
		References: "<m0@example.com>",
	}

	id, err := client.Reply(context.Background(), orig, "I'm away.", map[string]string{
		"Auto-Submitted": "auto-replied",
	})
	require.NoError(t, err)
	assert.Equal(t, "sent-1", id)
	assert.Equal(t, "t1", got.ThreadId)

	assert.Contains(t, raw, "To: Jane Doe <jane@example.com>\r\n")
	assert.Contains(t, raw, "Subject: Re: Project status\r\n")
	assert.Contains(t, raw, "In-Reply-To: <m1@example.com>\r\n")
	assert.Contains(t, raw, "References: <m0@example.com> <m1@example.com>\r\n")
	assert.Contains(t, raw, "Auto-Submitted: auto-replied\r\n")
}

func TestReply_UsesReplyTo(t *testing.T) {
	var got gmail.Message
	var raw string
	client := captureSend(t, &got, &raw)

	_, err := client.Reply(context.Background(), Message{
		ThreadID: "t1",
		From:     "list@example.com",
		ReplyTo:  "owner@example.com",
		Subject:  "RE: question",
	}, "body", nil)
	require.NoError(t, err)

	assert.Contains(t, raw, "To: owner@example.com\r\n")
	assert.Contains(t, raw, "Subject: RE: question\r\n")
	assert.NotContains(t, raw, "In-Reply-To")
}

func TestReply_Validation(t *testing.T) {
	client := &Client{}

	_, err := client.Reply(context.Background(), Message{From: "a@example.com"}, "body", nil)
	assert.Error(t, err)

	_, err = client.Reply(context.Background(), Message{ThreadID: "t1"}, "body", nil)
	assert.Error(t, err)

	_, err = client.Reply(context.Background(), Message{ThreadID: "t1", From: "a@example.com"}, "", nil)
	assert.Error(t, err)
}

func TestReplySubject(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"Hello", "Re: Hello"},
		{"Re: Hello", "Re: Hello"},
		{"re: hello", "re: hello"},
		{"", "Re: "},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ReplySubject(tt.in))
	}
}

func TestEncodeRFC2047(t *testing.T) {
	assert.Equal(t, "plain ascii", encodeRFC2047("plain ascii"))

	encoded := encodeRFC2047("Grüße")
	assert.True(t, strings.HasPrefix(encoded, "=?UTF-8?b?"), encoded)
}
