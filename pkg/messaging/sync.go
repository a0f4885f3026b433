package messaging

// ChangeTopic names one exchange/queue pair; the deployment prefix keeps
// environments apart on a shared broker.
type ChangeTopic string

const (
	RecordsChanged ChangeTopic = "record_changed"
)
