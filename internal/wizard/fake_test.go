package wizard

import (
	"context"
	"sync"
)

// fakeGateway records every call and returns canned results.
type fakeGateway struct {
	mu sync.Mutex

	questions []string
	plan      []string
	prompt    string
	err       error

	// block, when set, holds every call until it is closed.
	block   chan struct{}
	started chan struct{}

	calls       []string
	planInputs  []FormState
	finalInputs []FormState
	inFlight    int
	maxInFlight int
}

func (f *fakeGateway) enter(op string) {
	f.mu.Lock()
	f.calls = append(f.calls, op)
	f.inFlight++
	if f.inFlight > f.maxInFlight {
		f.maxInFlight = f.inFlight
	}
	f.mu.Unlock()

	if f.started != nil {
		f.started <- struct{}{}
	}
	if f.block != nil {
		<-f.block
	}
}

func (f *fakeGateway) leave() {
	f.mu.Lock()
	f.inFlight--
	f.mu.Unlock()
}

func (f *fakeGateway) GenerateClarifyingQuestions(ctx context.Context, intent, workflowJSON string) ([]string, error) {
	f.enter(OpClarifyingQuestions)
	defer f.leave()
	if f.err != nil {
		return nil, f.err
	}
	return f.questions, nil
}

func (f *fakeGateway) GenerateExecutionPlan(ctx context.Context, form FormState) ([]string, error) {
	f.enter(OpExecutionPlan)
	defer f.leave()
	f.mu.Lock()
	f.planInputs = append(f.planInputs, form)
	f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	return f.plan, nil
}

func (f *fakeGateway) GenerateFinalSystemPrompt(ctx context.Context, form FormState) (string, error) {
	f.enter(OpFinalSystemPrompt)
	defer f.leave()
	f.mu.Lock()
	f.finalInputs = append(f.finalInputs, form)
	f.mu.Unlock()
	if f.err != nil {
		return "", f.err
	}
	return f.prompt, nil
}

func (f *fakeGateway) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}
