package gmail

import (
	"context"
	"fmt"
	"sync"

	gmail "google.golang.org/api/gmail/v1"
	"google.golang.org/api/option"

	"github.com/teemow/workday/internal/google"
	"github.com/teemow/workday/internal/instrumentation"
)

// userID addresses the authenticated mailbox.
const userID = "me"

// Client wraps the Gmail Users service
type Client struct {
	svc     *gmail.UsersService
	account string // The account this client is associated with
	metrics *instrumentation.Metrics

	mu      sync.Mutex
	address string // Cached own address
}

// Account returns the account name this client is associated with
func (c *Client) Account() string {
	return c.account
}

// NewClientForAccount creates a new Gmail client with OAuth2 authentication for a specific account.
func NewClientForAccount(ctx context.Context, account string, tokenProvider google.TokenProvider) (*Client, error) {
	httpClient, err := google.GetHTTPClientForAccount(ctx, account, tokenProvider)
	if err != nil {
		return nil, err
	}

	svc, err := gmail.NewService(ctx, option.WithHTTPClient(httpClient))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gmail service: %w", err)
	}

	return NewClientWithService(svc, account), nil
}

// NewClientWithService wraps an existing Gmail service.
func NewClientWithService(svc *gmail.Service, account string) *Client {
	return &Client{svc: svc.Users, account: account}
}

// WithMetrics records every API call of the client on m.
func (c *Client) WithMetrics(m *instrumentation.Metrics) *Client {
	c.metrics = m
	return c
}

func (c *Client) track(ctx context.Context, operation string, fn func(context.Context) error) error {
	return instrumentation.TrackGoogleAPI(ctx, c.metrics, instrumentation.ServiceGmail, operation, fn)
}

// ListMessages returns up to maxResults messages matching the Gmail search
// query, newest first, with headers and body decoded.
func (c *Client) ListMessages(ctx context.Context, query string, maxResults int64) ([]Message, error) {
	if maxResults <= 0 {
		return nil, nil
	}

	var refs []*gmail.Message
	pageToken := ""
	for {
		remaining := maxResults - int64(len(refs))
		if remaining <= 0 {
			break
		}

		// Gmail API has a max page size of 500, list in pages of 100
		pageSize := remaining
		if pageSize > 100 {
			pageSize = 100
		}

		req := c.svc.Messages.List(userID).Q(query).MaxResults(pageSize)
		if pageToken != "" {
			req = req.PageToken(pageToken)
		}

		var res *gmail.ListMessagesResponse
		err := c.track(ctx, instrumentation.OperationList, func(ctx context.Context) error {
			var err error
			res, err = req.Context(ctx).Do()
			return err
		})
		if err != nil {
			return nil, fmt.Errorf("failed to list messages: %w", err)
		}

		refs = append(refs, res.Messages...)
		if res.NextPageToken == "" {
			break
		}
		pageToken = res.NextPageToken
	}

	if int64(len(refs)) > maxResults {
		refs = refs[:maxResults]
	}

	messages := make([]Message, 0, len(refs))
	for _, ref := range refs {
		msg, err := c.GetMessage(ctx, ref.Id)
		if err != nil {
			return nil, err
		}
		messages = append(messages, msg)
	}
	return messages, nil
}

// GetMessage retrieves a full message.
func (c *Client) GetMessage(ctx context.Context, messageID string) (Message, error) {
	var msg *gmail.Message
	err := c.track(ctx, instrumentation.OperationGet, func(ctx context.Context) error {
		var err error
		msg, err = c.svc.Messages.Get(userID, messageID).Format("full").Context(ctx).Do()
		return err
	})
	if err != nil {
		return Message{}, fmt.Errorf("failed to get message %s: %w", messageID, err)
	}
	return toMessage(msg), nil
}

// MarkAsRead removes the UNREAD label from a message.
func (c *Client) MarkAsRead(ctx context.Context, messageID string) error {
	err := c.track(ctx, instrumentation.OperationModify, func(ctx context.Context) error {
		_, err := c.svc.Messages.Modify(userID, messageID, &gmail.ModifyMessageRequest{
			RemoveLabelIds: []string{LabelUnread},
		}).Context(ctx).Do()
		return err
	})
	if err != nil {
		return fmt.Errorf("failed to mark message %s as read: %w", messageID, err)
	}
	return nil
}

// Address returns the email address of the authenticated mailbox. The result
// is cached after the first successful call.
func (c *Client) Address(ctx context.Context) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.address != "" {
		return c.address, nil
	}

	var profile *gmail.Profile
	err := c.track(ctx, instrumentation.OperationGet, func(ctx context.Context) error {
		var err error
		profile, err = c.svc.GetProfile(userID).Context(ctx).Do()
		return err
	})
	if err != nil {
		return "", fmt.Errorf("failed to get Gmail profile: %w", err)
	}

	c.address = profile.EmailAddress
	return c.address, nil
}
