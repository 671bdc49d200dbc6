package tasks

import "time"

// Task Types
const (
	// Session maintenance
	TaskTypeSessionPrune = "sessions:prune"
)

// Task Queues
const (
	QueueCritical = "critical"
	QueueDefault  = "default"
	QueueLow      = "low" // For background tasks like cleanup
)

// Task Timeouts
const (
	TimeoutShort  = 1 * time.Minute
	TimeoutMedium = 5 * time.Minute
)

// Task Retry Settings
const (
	RetryDefault = 3
	RetryMin     = 1
)
