package usecase

import (
	"context"
	"time"

	"go.uber.org/zap"

	"hybridgate/internal/domain/entity"
	"hybridgate/internal/domain/repository"
)

// externalQuerier is the provider-side seam of the gateway. ProviderChain
// implements it.
type externalQuerier interface {
	Query(ctx context.Context, query, queryContext string) (*entity.ExternalResponse, error)
}

// EscalationGateway runs the full escalation flow: gate on confidence,
// serve from cache, check connectivity, walk the provider chain and cache
// the outcome. Every path yields a structured result.
type EscalationGateway struct {
	evaluator *ConfidenceEvaluator
	cache     repository.ResponseCache
	providers externalQuerier
	probe     repository.ConnectivityProbe
	logger    *zap.Logger
}

func NewEscalationGateway(
	evaluator *ConfidenceEvaluator,
	cache repository.ResponseCache,
	providers externalQuerier,
	probe repository.ConnectivityProbe,
	logger *zap.Logger,
) *EscalationGateway {
	return &EscalationGateway{
		evaluator: evaluator,
		cache:     cache,
		providers: providers,
		probe:     probe,
		logger:    logger,
	}
}

// Escalate decides and, if warranted, performs the escalation of one
// locally answered query.
func (g *EscalationGateway) Escalate(ctx context.Context, req entity.EscalateRequest) *entity.EscalateResult {
	start := time.Now()
	conf := entity.Clamp01(req.Confidence)

	decision := g.evaluator.Evaluate(req.Query, req.Confidence, req.Response)
	if !decision.ShouldEscalate {
		return &entity.EscalateResult{
			Success:        true,
			Escalated:      false,
			Response:       req.Response,
			Source:         entity.SourceLocal,
			Confidence:     conf,
			ProcessingTime: time.Since(start).Seconds(),
			Reason:         decision.Reason,
		}
	}

	if g.cache != nil {
		if entry := g.cache.Lookup(ctx, req.Query, req.Context); entry != nil {
			return &entity.EscalateResult{
				Success:        true,
				Escalated:      true,
				Response:       entry.Response,
				Source:         entry.Source,
				Confidence:     entry.Confidence,
				ProcessingTime: time.Since(start).Seconds(),
				Cached:         true,
				Reason:         decision.Reason,
			}
		}
	}

	if g.probe != nil && !g.probe.Online(ctx) {
		g.logger.Warn("external providers unreachable, staying local",
			zap.String("reason", decision.Reason))
		return &entity.EscalateResult{
			Success:        false,
			Escalated:      false,
			Response:       req.Response,
			Source:         entity.SourceLocalFallback,
			Confidence:     conf,
			ProcessingTime: time.Since(start).Seconds(),
			Reason:         decision.Reason,
			Error:          "external providers unavailable: no internet connection",
		}
	}

	resp, err := g.providers.Query(ctx, req.Query, req.Context)
	if err != nil {
		g.logger.Error("escalation failed", zap.Error(err))
		return &entity.EscalateResult{
			Success:        false,
			Escalated:      false,
			Response:       req.Response,
			Source:         entity.SourceErrorFallback,
			Confidence:     conf,
			ProcessingTime: time.Since(start).Seconds(),
			Reason:         decision.Reason,
			Error:          err.Error(),
		}
	}

	if !resp.Success {
		g.evaluator.RecordOutcome(false)
		return &entity.EscalateResult{
			Success:        false,
			Escalated:      true,
			Source:         resp.Source,
			Confidence:     conf,
			ProcessingTime: time.Since(start).Seconds(),
			Reason:         decision.Reason,
			Error:          resp.Error,
		}
	}

	if g.cache != nil && !resp.Cached {
		g.cache.Store(ctx, req.Query, resp, req.Context)
	}
	g.evaluator.RecordOutcome(true)

	return &entity.EscalateResult{
		Success:        true,
		Escalated:      true,
		Response:       resp.Response,
		Source:         resp.Source,
		Confidence:     resp.Confidence,
		ProcessingTime: time.Since(start).Seconds(),
		Cached:         resp.Cached,
		Reason:         decision.Reason,
	}
}
