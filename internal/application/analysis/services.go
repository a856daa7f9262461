package analysis

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	domain "github.com/bryanwahyu/fptaylor-service/internal/domain/analysis"
)

const queryLogTimeout = 2 * time.Second

// Service implements use-cases untuk analisis FPTaylor.
// Safe for concurrent use; it holds no per-request state.
type Service struct {
	Invoker domain.Invoker
	Queries domain.QueryLog // nil = logging off
	Timeout time.Duration
	Logger  *zap.Logger
}

func (s *Service) logger() *zap.Logger {
	if s.Logger == nil {
		return zap.NewNop()
	}
	return s.Logger
}

// Analyze runs Invoker → Parse once, without retry, and always returns an Outcome.
func (s *Service) Analyze(ctx context.Context, q domain.Query) (out domain.Outcome) {
	log := s.logger()

	if strings.TrimSpace(string(q)) == "" {
		return domain.Failed(q, domain.FailureInvalidInput)
	}

	var res domain.InvokeResult
	defer func() {
		if r := recover(); r != nil {
			log.Error("analysis panicked", zap.Any("panic", r), zap.String("query", string(q)))
			out = domain.Failed(q, domain.FailureInvalidInput)
		}
		recordOutcome(out.Status(), res.Elapsed)
	}()

	res, err := s.invoke(ctx, q)
	if err != nil {
		log.Warn("analyzer invocation failed",
			zap.Error(err),
			zap.String("query", string(q)),
			zap.Duration("elapsed", res.Elapsed),
		)
		return domain.Failed(q, domain.Classify(err))
	}

	report, err := domain.Parse(res.Stdout, res.Stderr)
	if err != nil {
		log.Warn("analyzer report rejected",
			zap.Error(err),
			zap.String("query", string(q)),
			zap.Int("exit_code", res.ExitCode),
			zap.String("stdout", res.Stdout),
			zap.String("stderr", res.Stderr),
			zap.String("contract", domain.ReportContractVersion),
		)
		return domain.Failed(q, domain.Classify(err))
	}
	if res.ExitCode != 0 {
		log.Info("analyzer exited non-zero but report parsed",
			zap.Int("exit_code", res.ExitCode),
			zap.String("stderr", res.Stderr),
		)
	}

	return domain.Succeeded(q, domain.Result{
		Lower:   report.Lower,
		Upper:   report.Upper,
		Error:   report.Error,
		Elapsed: res.Elapsed,
	})
}

func (s *Service) invoke(ctx context.Context, q domain.Query) (domain.InvokeResult, error) {
	analysesRunning.Inc()
	defer analysesRunning.Dec()
	// client disconnects do not cancel the analyzer, only the timeout does
	return s.Invoker.Invoke(context.WithoutCancel(ctx), domain.InvokeRequest{Query: q, Timeout: s.Timeout})
}

// LogQuery stores q in the query log. Best effort: failures are logged, never returned.
func (s *Service) LogQuery(ctx context.Context, q domain.Query) {
	if s.Queries == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), queryLogTimeout)
	defer cancel()

	entry, err := s.Queries.Log(ctx, q)
	switch {
	case err != nil:
		queryLogWrites.WithLabelValues("error").Inc()
		s.logger().Warn("query log skipped", zap.Error(err))
	case entry.Created:
		queryLogWrites.WithLabelValues("created").Inc()
		s.logger().Debug("query logged", zap.String("name", entry.Name))
	default:
		queryLogWrites.WithLabelValues("exists").Inc()
	}
}

// String is used in startup logs.
func (s *Service) String() string {
	return fmt.Sprintf("analysis.Service{timeout=%s, querylog=%t}", s.Timeout, s.Queries != nil)
}
