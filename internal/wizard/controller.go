// Package wizard owns the prompt-building session: the five-step state
// machine, the form record, the header catalog and the contract with the
// AI gateway. Views and transports only talk to a Controller.
package wizard

import (
	"context"
	"fmt"
	"maps"
	"slices"
	"sync"
	"time"

	"github.com/mark3labs/promptsmith/internal/logger"
)

// FailureMessage is shown to the user whenever a generation attempt fails.
const FailureMessage = "Something went wrong with the AI generation. Please try again."

// Notice is a user-visible failure report. Exactly one is raised per
// failed gateway attempt.
type Notice struct {
	Step    Step
	Op      string
	Message string
	Err     error
	Time    time.Time
}

// ChangeKind classifies a reported session change.
type ChangeKind string

const (
	ChangeAdvanced ChangeKind = "advanced"
	ChangeFailed   ChangeKind = "failed"
	ChangeReset    ChangeKind = "reset"
)

// Change is reported to the observer after every transition, failed
// attempt and reset.
type Change struct {
	Kind        ChangeKind
	From        Step
	To          Step
	Op          string
	Err         error
	Elapsed     time.Duration
	Form        FormState
	FinalPrompt string
}

// AdvanceResult describes the outcome of one Advance call.
type AdvanceResult struct {
	From    Step
	To      Step
	Effect  Effect
	Skipped   bool // a gateway call was already in flight
	Discarded bool // the session was reset while the call was in flight
	Notice    *Notice
}

// Advanced reports whether the step changed.
func (r AdvanceResult) Advanced() bool {
	return r.To != r.From
}

// Err returns the generation error of a failed attempt, or nil.
func (r AdvanceResult) Err() error {
	if r.Notice == nil {
		return nil
	}
	return r.Notice.Err
}

// Status is a consistent snapshot of the whole session.
type Status struct {
	Step        Step
	Form        FormState
	FinalPrompt string
	Busy        bool
}

// Option configures a Controller.
type Option func(*Controller)

// WithTimeout bounds each gateway call. Zero means no bound.
func WithTimeout(d time.Duration) Option {
	return func(c *Controller) { c.timeout = d }
}

// WithNotifier registers a callback for failure notices.
func WithNotifier(fn func(Notice)) Option {
	return func(c *Controller) { c.notify = fn }
}

// WithObserver registers a callback for session changes.
func WithObserver(fn func(Change)) Option {
	return func(c *Controller) { c.observe = fn }
}

// Controller is the single writer of session state. All methods are safe
// for concurrent use.
type Controller struct {
	gw      Gateway
	timeout time.Duration
	notify  func(Notice)
	observe func(Change)

	mu          sync.Mutex
	step        Step
	form        FormState
	finalPrompt string
	busy        bool
	epoch       uint64 // bumped by Reset so late gateway results are dropped
}

// NewController creates a session at the first step.
func NewController(gw Gateway, opts ...Option) *Controller {
	c := &Controller{
		gw:   gw,
		step: StepInitialDetails,
		form: NewFormState(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Step returns the current step.
func (c *Controller) Step() Step {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.step
}

// Form returns a deep copy of the form.
func (c *Controller) Form() FormState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.form.Clone()
}

// FinalPrompt returns the generated system prompt, or "" before step 5.
func (c *Controller) FinalPrompt() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.finalPrompt
}

// Busy reports whether a gateway call is in flight.
func (c *Controller) Busy() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.busy
}

// Status returns step, form, final prompt and busy flag atomically.
func (c *Controller) Status() Status {
	c.mu.Lock()
	defer c.mu.Unlock()
	return Status{
		Step:        c.step,
		Form:        c.form.Clone(),
		FinalPrompt: c.finalPrompt,
		Busy:        c.busy,
	}
}

// Advance moves the session one step forward, calling the gateway when the
// transition needs generated content. On failure the step and form are left
// untouched and a single Notice is raised. While a call is in flight,
// Advance returns immediately with Skipped set.
func (c *Controller) Advance(ctx context.Context) AdvanceResult {
	c.mu.Lock()
	from := c.step
	if c.busy {
		c.mu.Unlock()
		logger.Debug("advance ignored at %s: generation in flight", from)
		return AdvanceResult{From: from, To: from, Skipped: true}
	}

	next, effect := Transition(from, EventAdvance)
	if !effect.NeedsGateway() {
		c.step = next
		change := Change{Kind: ChangeAdvanced, From: from, To: next, Form: c.form.Clone(), FinalPrompt: c.finalPrompt}
		c.mu.Unlock()
		if next != from {
			logger.Debug("advanced %s -> %s", from, next)
			c.emit(change)
		}
		return AdvanceResult{From: from, To: next, Effect: effect}
	}

	c.busy = true
	epoch := c.epoch
	snapshot := c.form.Clone()
	c.mu.Unlock()

	op := OpForEffect(effect)
	start := time.Now()
	out, err := c.dispatch(ctx, effect, snapshot)
	elapsed := time.Since(start)

	c.mu.Lock()
	c.busy = false
	if epoch != c.epoch {
		// Session was reset while the call was in flight.
		c.mu.Unlock()
		logger.Debug("%s result discarded after reset", op)
		return AdvanceResult{From: from, To: from, Effect: effect, Discarded: true}
	}
	if err != nil {
		c.mu.Unlock()
		gerr := NewGenerationError(op, err)
		notice := Notice{
			Step:    from,
			Op:      op,
			Message: FailureMessage,
			Err:     gerr,
			Time:    time.Now(),
		}
		logger.Warn("%s failed after %s: %v", op, elapsed, err)
		if c.notify != nil {
			c.notify(notice)
		}
		c.emit(Change{Kind: ChangeFailed, From: from, To: from, Op: op, Err: gerr, Elapsed: elapsed, Form: snapshot})
		return AdvanceResult{From: from, To: from, Effect: effect, Notice: &notice}
	}

	switch effect {
	case EffectGenerateQuestions:
		c.form.AIQuestions = slices.Clone(out.questions)
	case EffectGeneratePlan:
		c.form.AIPlan = slices.Clone(out.plan)
	case EffectGenerateFinalPrompt:
		c.finalPrompt = out.prompt
	}
	c.step = next
	change := Change{
		Kind:        ChangeAdvanced,
		From:        from,
		To:          next,
		Op:          op,
		Elapsed:     elapsed,
		Form:        c.form.Clone(),
		FinalPrompt: c.finalPrompt,
	}
	c.mu.Unlock()

	logger.Debug("advanced %s -> %s via %s in %s", from, next, op, elapsed)
	c.emit(change)
	return AdvanceResult{From: from, To: next, Effect: effect}
}

type generated struct {
	questions []string
	plan      []string
	prompt    string
}

// dispatch runs the gateway call for effect. A panicking gateway is
// reported as an error so the busy flag is always released.
func (c *Controller) dispatch(ctx context.Context, effect Effect, form FormState) (out generated, err error) {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("gateway panic: %v", r)
		}
	}()

	switch effect {
	case EffectGenerateQuestions:
		out.questions, err = c.gw.GenerateClarifyingQuestions(ctx, form.BuildIntent, form.WorkflowJSON)
	case EffectGeneratePlan:
		out.plan, err = c.gw.GenerateExecutionPlan(ctx, form)
	case EffectGenerateFinalPrompt:
		out.prompt, err = c.gw.GenerateFinalSystemPrompt(ctx, form)
	default:
		err = fmt.Errorf("effect %s has no gateway operation", effect)
	}
	return out, err
}

// Reset restores the initial session and returns to the first step.
// A generation still in flight is allowed to finish but its result is
// discarded.
func (c *Controller) Reset() {
	c.mu.Lock()
	from := c.step
	next, _ := Transition(from, EventReset)
	c.step = next
	c.form = NewFormState()
	c.finalPrompt = ""
	c.epoch++
	change := Change{Kind: ChangeReset, From: from, To: next, Form: c.form.Clone()}
	c.mu.Unlock()

	logger.Debug("session reset from %s", from)
	c.emit(change)
}

// UpdateFields merges a partial update into the form. It never changes the
// step and never calls the gateway.
func (c *Controller) UpdateFields(u FormUpdate) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.form = u.Apply(c.form)
}

// SetAnswer records the answer for the question at index i.
func (c *Controller) SetAnswer(i int, answer string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	answers := maps.Clone(c.form.UserAnswers)
	if answers == nil {
		answers = map[int]string{}
	}
	answers[i] = answer
	c.form = FormUpdate{UserAnswers: &answers}.Apply(c.form)
}

// ToggleHeader flips the selection of header id and returns the new
// selection. Required headers can be deselected too.
func (c *Controller) ToggleHeader(id int) (selected bool, ok bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	headers := slices.Clone(c.form.SelectedHeaders)
	for i := range headers {
		if headers[i].ID == id {
			headers[i].Selected = !headers[i].Selected
			c.form = FormUpdate{SelectedHeaders: &headers}.Apply(c.form)
			return headers[i].Selected, true
		}
	}
	return false, false
}

// SetHeaderSelected sets the selection of header id.
func (c *Controller) SetHeaderSelected(id int, selected bool) bool {
	return c.editHeader(id, func(h *PromptHeader) { h.Selected = selected })
}

// SetHeaderInput stores the extra input for a header that requires it.
func (c *Controller) SetHeaderInput(id int, value string) bool {
	return c.editHeader(id, func(h *PromptHeader) { h.InputValue = value })
}

func (c *Controller) editHeader(id int, fn func(*PromptHeader)) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	headers := slices.Clone(c.form.SelectedHeaders)
	for i := range headers {
		if headers[i].ID == id {
			fn(&headers[i])
			c.form = FormUpdate{SelectedHeaders: &headers}.Apply(c.form)
			return true
		}
	}
	return false
}

func (c *Controller) emit(ch Change) {
	if c.observe != nil {
		c.observe(ch)
	}
}
