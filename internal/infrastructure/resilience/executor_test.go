package resilience

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/sony/gobreaker/v2"

	"github.com/kirillkom/docvault/internal/core/domain"
)

func fastConfig() Config {
	return Config{
		RetryMaxAttempts:    3,
		RetryInitialBackoff: 1 * time.Millisecond,
		RetryMaxBackoff:     2 * time.Millisecond,
		RetryMultiplier:     2,
		BreakerEnabled:      false,
	}
}

func TestExecuteRetriesTemporaryFailure(t *testing.T) {
	exec := New(fastConfig(), ClassifyModelError)

	attempts := 0
	err := exec.Execute(context.Background(), "analyze", func(context.Context) error {
		attempts++
		if attempts < 3 {
			return domain.WrapError(domain.ErrTemporary, "analyze", errors.New("connection reset"))
		}
		return nil
	})
	if err != nil {
		t.Fatalf("expected success after retries, got %v", err)
	}
	if attempts != 3 {
		t.Fatalf("expected 3 attempts, got %d", attempts)
	}
}

func TestExecuteDoesNotRetrySchemaViolation(t *testing.T) {
	exec := New(fastConfig(), ClassifyModelError)

	attempts := 0
	err := exec.Execute(context.Background(), "search", func(context.Context) error {
		attempts++
		return domain.WrapError(domain.ErrSchemaViolation, "search", errors.New("missing answer"))
	})
	if !domain.IsKind(err, domain.ErrSchemaViolation) {
		t.Fatalf("expected schema violation, got %v", err)
	}
	if attempts != 1 {
		t.Fatalf("expected 1 attempt, got %d", attempts)
	}
}

func TestExecuteRetriesModelWarming(t *testing.T) {
	exec := New(fastConfig(), ClassifyModelError)

	attempts := 0
	err := exec.Execute(context.Background(), "analyze", func(context.Context) error {
		attempts++
		if attempts == 1 {
			return &StatusError{Operation: "analyze", Status: http.StatusServiceUnavailable, Body: `{"error":"model is loading"}`}
		}
		return nil
	})
	if err != nil {
		t.Fatalf("expected success after warm-up retry, got %v", err)
	}
	if attempts != 2 {
		t.Fatalf("expected 2 attempts, got %d", attempts)
	}
}

func TestModelWarmingDoesNotTripBreaker(t *testing.T) {
	cfg := fastConfig()
	cfg.RetryMaxAttempts = 1
	cfg.BreakerEnabled = true
	cfg.BreakerMinRequests = 2
	cfg.BreakerFailureRatio = 0.5
	cfg.BreakerOpenTimeout = 50 * time.Millisecond
	cfg.BreakerHalfOpenMaxCalls = 1
	exec := New(cfg, ClassifyModelError)

	warming := &StatusError{Operation: "analyze", Status: http.StatusServiceUnavailable, Body: "model is loading"}
	for i := 0; i < 5; i++ {
		err := exec.Execute(context.Background(), "analyze", func(context.Context) error {
			return warming
		})
		if !errors.Is(err, domain.ErrTemporary) {
			t.Fatalf("iteration %d: expected warming error, got %v", i, err)
		}
		if IsCircuitOpen(err) {
			t.Fatalf("iteration %d: warm-up failures must not open the circuit", i)
		}
	}
}

func TestExecuteOpensCircuitAfterOutage(t *testing.T) {
	cfg := fastConfig()
	cfg.RetryMaxAttempts = 1
	cfg.BreakerEnabled = true
	cfg.BreakerMinRequests = 2
	cfg.BreakerFailureRatio = 0.5
	cfg.BreakerOpenTimeout = 50 * time.Millisecond
	cfg.BreakerHalfOpenMaxCalls = 1
	exec := New(cfg, ClassifyModelError)

	outage := &StatusError{Operation: "analyze", Status: http.StatusBadGateway, Body: "upstream down"}
	for i := 0; i < 2; i++ {
		err := exec.Execute(context.Background(), "analyze", func(context.Context) error {
			return outage
		})
		if !errors.Is(err, domain.ErrTemporary) {
			t.Fatalf("iteration %d: expected outage error, got %v", i, err)
		}
	}

	err := exec.Execute(context.Background(), "analyze", func(context.Context) error {
		t.Fatalf("circuit should be open and must not call operation")
		return nil
	})
	if !errors.Is(err, gobreaker.ErrOpenState) {
		t.Fatalf("expected open state error, got %v", err)
	}
}

func TestBreakersAreIsolatedPerOperation(t *testing.T) {
	cfg := fastConfig()
	cfg.RetryMaxAttempts = 1
	cfg.BreakerEnabled = true
	cfg.BreakerMinRequests = 2
	cfg.BreakerFailureRatio = 0.5
	cfg.BreakerOpenTimeout = time.Minute
	cfg.BreakerHalfOpenMaxCalls = 1
	exec := New(cfg, ClassifyModelError)

	outage := &StatusError{Operation: "analyze", Status: http.StatusInternalServerError, Body: "boom"}
	for i := 0; i < 2; i++ {
		_ = exec.Execute(context.Background(), "analyze", func(context.Context) error { return outage })
	}

	if err := exec.Execute(context.Background(), "search", func(context.Context) error { return nil }); err != nil {
		t.Fatalf("open analyze breaker must not affect search: %v", err)
	}
}

func TestStatusErrorKinds(t *testing.T) {
	unauthorized := &StatusError{Operation: "analyze", Status: http.StatusUnauthorized, Body: "bad key"}
	if !errors.Is(unauthorized, domain.ErrInvalidInput) {
		t.Fatalf("401 must map to invalid input")
	}

	unavailable := &StatusError{Operation: "analyze", Status: http.StatusServiceUnavailable, Body: "down"}
	if !errors.Is(unavailable, domain.ErrTemporary) {
		t.Fatalf("503 must map to temporary")
	}
}
