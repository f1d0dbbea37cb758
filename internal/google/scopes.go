package google

// DefaultOAuthScopes are the Google OAuth scopes workday requests.
//
// The scopes provide access to:
//   - Gmail: read and label changes (mark as read), send
//   - Google Calendar: read-only
//   - Google Tasks: full access (reminder tasks)
var DefaultOAuthScopes = []string{
	"https://www.googleapis.com/auth/gmail.modify",
	"https://www.googleapis.com/auth/gmail.send",
	"https://www.googleapis.com/auth/calendar.readonly",
	"https://www.googleapis.com/auth/tasks",
}
