package gateway

import (
	"context"

	"github.com/mark3labs/promptsmith/internal/wizard"
	"golang.org/x/time/rate"
)

// WithRateLimit spaces calls to at most rps per second. rps <= 0 disables
// the limiter.
func WithRateLimit(rps float64, burst int) Middleware {
	return func(next wizard.Gateway) wizard.Gateway {
		if rps <= 0 {
			return next
		}
		if burst < 1 {
			burst = 1
		}
		return &rateLimited{next: next, rl: rate.NewLimiter(rate.Limit(rps), burst)}
	}
}

type rateLimited struct {
	next wizard.Gateway
	rl   *rate.Limiter
}

func (r *rateLimited) GenerateClarifyingQuestions(ctx context.Context, intent, workflowJSON string) ([]string, error) {
	if err := r.rl.Wait(ctx); err != nil {
		return nil, err
	}
	return r.next.GenerateClarifyingQuestions(ctx, intent, workflowJSON)
}

func (r *rateLimited) GenerateExecutionPlan(ctx context.Context, form wizard.FormState) ([]string, error) {
	if err := r.rl.Wait(ctx); err != nil {
		return nil, err
	}
	return r.next.GenerateExecutionPlan(ctx, form)
}

func (r *rateLimited) GenerateFinalSystemPrompt(ctx context.Context, form wizard.FormState) (string, error) {
	if err := r.rl.Wait(ctx); err != nil {
		return "", err
	}
	return r.next.GenerateFinalSystemPrompt(ctx, form)
}
