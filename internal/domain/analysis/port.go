package analysis

import "context"

// Invoker port (interface untuk eksekusi analyzer eksternal)
type Invoker interface {
	Invoke(ctx context.Context, req InvokeRequest) (InvokeResult, error)
}

// QueryLog port (interface untuk penyimpanan query, write-once)
type QueryLog interface {
	Log(ctx context.Context, q Query) (LogEntry, error)
}
