package gateway

import (
	"context"
	"time"

	"github.com/mark3labs/promptsmith/internal/logger"
	"github.com/mark3labs/promptsmith/internal/wizard"
)

// WithLogging logs every call with its duration and outcome.
func WithLogging() Middleware {
	return func(next wizard.Gateway) wizard.Gateway {
		return &logged{next: next}
	}
}

type logged struct {
	next wizard.Gateway
}

func (l *logged) GenerateClarifyingQuestions(ctx context.Context, intent, workflowJSON string) ([]string, error) {
	logger.Debug("%s request: intent=%d bytes workflow=%d bytes", wizard.OpClarifyingQuestions, len(intent), len(workflowJSON))
	start := time.Now()
	out, err := l.next.GenerateClarifyingQuestions(ctx, intent, workflowJSON)
	l.done(wizard.OpClarifyingQuestions, start, len(out), err)
	return out, err
}

func (l *logged) GenerateExecutionPlan(ctx context.Context, form wizard.FormState) ([]string, error) {
	logger.Debug("%s request: %d answers, %d headers selected", wizard.OpExecutionPlan,
		len(form.UserAnswers), len(wizard.SelectedOnly(form.SelectedHeaders)))
	start := time.Now()
	out, err := l.next.GenerateExecutionPlan(ctx, form)
	l.done(wizard.OpExecutionPlan, start, len(out), err)
	return out, err
}

func (l *logged) GenerateFinalSystemPrompt(ctx context.Context, form wizard.FormState) (string, error) {
	logger.Debug("%s request: %d plan steps", wizard.OpFinalSystemPrompt, len(form.AIPlan))
	start := time.Now()
	out, err := l.next.GenerateFinalSystemPrompt(ctx, form)
	l.done(wizard.OpFinalSystemPrompt, start, len(out), err)
	return out, err
}

func (l *logged) done(op string, start time.Time, size int, err error) {
	if err != nil {
		logger.Error("%s error after %s: %v", op, time.Since(start), err)
		return
	}
	logger.Info("%s completed in %s (%d items)", op, time.Since(start), size)
}
