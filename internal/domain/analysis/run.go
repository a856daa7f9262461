package analysis

import "time"

// InvokeRequest untuk Invoker
type InvokeRequest struct {
	Query   Query
	Timeout time.Duration
}

// InvokeResult hasil mentah dari Invoker, stdout/stderr ditangkap penuh
type InvokeResult struct {
	Stdout   string
	Stderr   string
	ExitCode int
	Elapsed  time.Duration
}

// LogEntry describes where a query ended up in the log store.
type LogEntry struct {
	Name    string
	Created bool
}
