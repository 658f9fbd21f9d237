package usecase

import (
	"context"
	"fmt"
	"math/rand"
	"strings"
	"time"

	"go.uber.org/zap"

	"hybridgate/internal/domain/entity"
	"hybridgate/internal/domain/repository"
)

// ProviderChain queries external providers in configured order. The primary
// gets retries with exponential backoff; each fallback gets a single
// attempt. Total failure is reported as an unsuccessful response, not an
// error, so callers always have a structured outcome.
type ProviderChain struct {
	providers  []repository.ExternalProvider
	maxRetries int
	baseDelay  time.Duration
	timeout    time.Duration
	logger     *zap.Logger
}

func NewProviderChain(providers []repository.ExternalProvider, logger *zap.Logger) *ProviderChain {
	return &ProviderChain{
		providers:  providers,
		maxRetries: 2,
		baseDelay:  500 * time.Millisecond,
		timeout:    25 * time.Second,
		logger:     logger,
	}
}

// Names lists the configured providers in call order.
func (c *ProviderChain) Names() []string {
	names := make([]string, len(c.providers))
	for i, p := range c.providers {
		names[i] = p.Name()
	}
	return names
}

// Query walks the chain until a provider succeeds. A scoped timeout caps
// the whole walk so one slow provider cannot hang the request.
func (c *ProviderChain) Query(ctx context.Context, query, queryContext string) (*entity.ExternalResponse, error) {
	if len(c.providers) == 0 {
		return nil, entity.ErrNoProviders
	}

	reqCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	primary := c.providers[0]
	resp, err := c.queryWithRetry(reqCtx, primary, query, queryContext)
	if err == nil {
		return resp, nil
	}
	lastErr := err
	c.logger.Warn("primary provider exhausted",
		zap.String("provider", primary.Name()),
		zap.Error(err))

	for _, p := range c.providers[1:] {
		resp, err = p.Query(reqCtx, query, queryContext)
		if err == nil {
			if resp.Metadata == nil {
				resp.Metadata = make(map[string]any)
			}
			resp.Metadata["fallback_used"] = true
			c.logger.Info("fallback provider answered", zap.String("provider", p.Name()))
			return resp, nil
		}
		lastErr = err
		c.logger.Warn("fallback provider failed",
			zap.String("provider", p.Name()),
			zap.Error(err))
	}

	return &entity.ExternalResponse{
		Success: false,
		Source:  entity.SourceFallbackFailed,
		Error:   fmt.Sprintf("all external providers failed: %v", lastErr),
	}, nil
}

func (c *ProviderChain) queryWithRetry(ctx context.Context, p repository.ExternalProvider, query, queryContext string) (*entity.ExternalResponse, error) {
	var lastErr error
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		resp, err := p.Query(ctx, query, queryContext)
		if err == nil {
			return resp, nil
		}
		lastErr = err

		if !isRetryable(err) || attempt == c.maxRetries {
			break
		}

		wait := c.backoff(attempt)
		c.logger.Debug("retrying provider",
			zap.String("provider", p.Name()),
			zap.Int("attempt", attempt+1),
			zap.Duration("wait", wait))
		select {
		case <-time.After(wait):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	return nil, lastErr
}

// isRetryable covers rate limits (429) and transient server errors (5xx).
func isRetryable(err error) bool {
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "429") ||
		strings.Contains(msg, "500") ||
		strings.Contains(msg, "503") ||
		strings.Contains(msg, "overloaded") ||
		strings.Contains(msg, "deadline")
}

func (c *ProviderChain) backoff(attempt int) time.Duration {
	backoff := float64(c.baseDelay) * float64(int(1)<<attempt)
	jitter := (rand.Float64() * 0.2) * backoff // 20% jitter
	return time.Duration(backoff + jitter)
}
