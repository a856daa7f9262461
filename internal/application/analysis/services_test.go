package analysis

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	domain "github.com/bryanwahyu/fptaylor-service/internal/domain/analysis"
)

type fakeInvoker struct {
	res   domain.InvokeResult
	err   error
	panic bool
	calls int
	got   domain.InvokeRequest
	ctx   context.Context
}

func (f *fakeInvoker) Invoke(ctx context.Context, req domain.InvokeRequest) (domain.InvokeResult, error) {
	f.calls++
	f.got = req
	f.ctx = ctx
	if f.panic {
		panic("boom")
	}
	return f.res, f.err
}

type fakeQueryLog struct {
	entries map[domain.Query]int
	err     error
}

func (f *fakeQueryLog) Log(ctx context.Context, q domain.Query) (domain.LogEntry, error) {
	if f.err != nil {
		return domain.LogEntry{}, f.err
	}
	if f.entries == nil {
		f.entries = map[domain.Query]int{}
	}
	f.entries[q]++
	return domain.LogEntry{Name: string(q), Created: f.entries[q] == 1}, nil
}

const okStdout = "Bounds (floating-point): [1.000000, 2.000000]\nAbsolute error (exact): 0.000001\n"

func TestAnalyze_Success(t *testing.T) {
	inv := &fakeInvoker{res: domain.InvokeResult{Stdout: okStdout, Elapsed: 750 * time.Millisecond}}
	svc := &Service{Invoker: inv, Timeout: 3 * time.Second}

	out := svc.Analyze(context.Background(), "q")

	require.True(t, out.OK)
	assert.Equal(t, domain.Result{Lower: 1.0, Upper: 2.0, Error: 0.000001, Elapsed: 750 * time.Millisecond}, out.Result)
	assert.Equal(t, 1, inv.calls)
	assert.Equal(t, 3*time.Second, inv.got.Timeout)
	assert.Equal(t, domain.Query("q"), inv.got.Query)
}

func TestAnalyze_Failures(t *testing.T) {
	tests := []struct {
		name string
		inv  *fakeInvoker
		want domain.FailureClass
	}{
		{"timeout", &fakeInvoker{err: fmt.Errorf("%w after 1s", domain.ErrTimeout)}, domain.FailureTimeout},
		{"domain error", &fakeInvoker{res: domain.InvokeResult{
			Stdout: okStdout,
			Stderr: "Potential exception detected: Sqrt of negative number at:\nsqrt(x)\n",
		}}, domain.FailureDomainError},
		{"unparseable", &fakeInvoker{res: domain.InvokeResult{Stdout: "Parsing error"}}, domain.FailureInvalidInput},
		{"process failure", &fakeInvoker{err: fmt.Errorf("%w: exec format error", domain.ErrInvalidInput)}, domain.FailureInvalidInput},
		{"unexpected error", &fakeInvoker{err: errors.New("disk full")}, domain.FailureInvalidInput},
		{"panic", &fakeInvoker{panic: true}, domain.FailureInvalidInput},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &Service{Invoker: tt.inv}
			out := svc.Analyze(context.Background(), "q")
			assert.False(t, out.OK)
			assert.Equal(t, tt.want, out.Failure)
			assert.Equal(t, 1, tt.inv.calls, "exactly one attempt, no retry")
		})
	}
}

func TestAnalyze_EmptyQueryNeverInvokes(t *testing.T) {
	inv := &fakeInvoker{}
	svc := &Service{Invoker: inv}

	out := svc.Analyze(context.Background(), "  \n")
	assert.False(t, out.OK)
	assert.Equal(t, domain.FailureInvalidInput, out.Failure)
	assert.Zero(t, inv.calls)
}

func TestAnalyze_ClientCancelDoesNotReachInvoker(t *testing.T) {
	inv := &fakeInvoker{res: domain.InvokeResult{Stdout: okStdout}}
	svc := &Service{Invoker: inv}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	out := svc.Analyze(ctx, "q")

	assert.True(t, out.OK)
	assert.NoError(t, inv.ctx.Err())
}

func TestAnalyze_DiagnosticsAreLoggedNotReturned(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)
	inv := &fakeInvoker{res: domain.InvokeResult{Stdout: "secret tool output", Stderr: "trace", ExitCode: 2}}
	svc := &Service{Invoker: inv, Logger: zap.New(core)}

	out := svc.Analyze(context.Background(), "q")
	assert.Equal(t, domain.FailureInvalidInput, out.Failure)
	assert.Equal(t, "Invalid Input", out.Failure.Message())

	entries := logs.FilterMessage("analyzer report rejected").All()
	require.Len(t, entries, 1)
	fields := entries[0].ContextMap()
	assert.Equal(t, "secret tool output", fields["stdout"])
	assert.Equal(t, "trace", fields["stderr"])
	assert.EqualValues(t, 2, fields["exit_code"])
}

func TestLogQuery(t *testing.T) {
	ql := &fakeQueryLog{}
	svc := &Service{Queries: ql}

	svc.LogQuery(context.Background(), "q")
	svc.LogQuery(context.Background(), "q")
	assert.Equal(t, 2, ql.entries["q"])
}

func TestLogQuery_ErrorsAreSwallowed(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)
	svc := &Service{Queries: &fakeQueryLog{err: errors.New("read-only fs")}, Logger: zap.New(core)}

	assert.NotPanics(t, func() { svc.LogQuery(context.Background(), "q") })
	assert.Equal(t, 1, logs.FilterMessage("query log skipped").Len())
}

func TestLogQuery_NilStore(t *testing.T) {
	svc := &Service{}
	assert.NotPanics(t, func() { svc.LogQuery(context.Background(), "q") })
}
