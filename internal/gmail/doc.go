// Package gmail reads, answers and sends mail through the Gmail API.
//
// Messages are returned as decoded Message values carrying the headers the
// reminder and auto-reply jobs look at. Outgoing mail is rendered in RFC 2822
// format with RFC 2047 encoded headers.
//
// Example usage:
//
//	client, err := gmail.NewClientForAccount(ctx, "default", google.NewFileTokenProvider())
//	if err != nil {
//	    return err
//	}
//
//	msgs, err := client.ListMessages(ctx, "in:inbox is:unread", 20)
//	if err != nil {
//	    return err
//	}
//
//	for _, m := range msgs {
//	    _, err := client.Reply(ctx, m, "Thanks, I will get back to you.", nil)
//	    ...
//	}
package gmail
