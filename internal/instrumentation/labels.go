package instrumentation

// Label values shared by the metrics and spans.
const (
	StatusSuccess = "success"
	StatusError   = "error"
	StatusSkipped = "skipped"

	ServiceGmail    = "gmail"
	ServiceCalendar = "calendar"
	ServiceTasks    = "tasks"

	OperationList   = "list"
	OperationGet    = "get"
	OperationCreate = "create"
	OperationModify = "modify"
	OperationSend   = "send"
	OperationQuery  = "query"

	// Poll jobs.
	JobReminders = "reminders"
	JobAutoReply = "autoreply"
)
