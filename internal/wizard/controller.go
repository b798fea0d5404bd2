package wizard

import (
	"context"
	"errors"
	"sync"
	"time"
)

// Payload is a finalized registration handed to the sink.
type Payload struct {
	Draft
	CreatedAt time.Time `json:"createdAt"`
}

// Receipt is what the sink returns for an accepted registration.
type Receipt struct {
	MemberID    string `json:"memberId"`
	AccessToken string `json:"accessToken,omitempty"`
}

// Completion is the result of a successful submit.
type Completion struct {
	Payload Payload
	Receipt Receipt
}

//go:generate mockgen -source=controller.go -destination=mocks/sink_mock.go -package=mocks Sink

// Sink accepts finished registrations, typically the account-creation service.
type Sink interface {
	Submit(ctx context.Context, payload Payload) (Receipt, error)
}

// SinkFunc adapts a function to Sink.
type SinkFunc func(ctx context.Context, payload Payload) (Receipt, error)

// Submit calls f.
func (f SinkFunc) Submit(ctx context.Context, payload Payload) (Receipt, error) {
	return f(ctx, payload)
}

// Observer is told about transitions. Implementations must not call back into the controller.
type Observer interface {
	StepChanged(from, to Step)
	ValidationFailed(step Step, fields FieldErrors)
	SubmissionFinished(err error)
}

type nopObserver struct{}

func (nopObserver) StepChanged(Step, Step)              {}
func (nopObserver) ValidationFailed(Step, FieldErrors) {}
func (nopObserver) SubmissionFinished(error)           {}

// Option configures a controller at open time.
type Option func(*Controller)

// WithInitialStep starts the wizard somewhere other than Welcome.
func WithInitialStep(step Step) Option {
	return func(c *Controller) { c.step = step }
}

// WithClock overrides the timestamp source for payloads.
func WithClock(now func() time.Time) Option {
	return func(c *Controller) { c.now = now }
}

// WithObserver attaches an observer.
func WithObserver(o Observer) Option {
	return func(c *Controller) {
		if o != nil {
			c.observer = o
		}
	}
}

type state int

const (
	stateOpen state = iota
	stateCompleted
	stateClosed
)

// Controller drives one registration through the step sequence. It owns the
// draft exclusively; operations are applied in the order they are issued.
type Controller struct {
	mu         sync.Mutex
	sink       Sink
	now        func() time.Time
	observer   Observer
	state      state
	step       Step
	draft      Draft
	errs       FieldErrors
	submitting bool
	submitErr  error
}

// Open starts a wizard with a default draft.
func Open(sink Sink, opts ...Option) (*Controller, error) {
	if sink == nil {
		return nil, errors.New("wizard: sink is required")
	}
	c := &Controller{
		sink:     sink,
		now:      time.Now,
		observer: nopObserver{},
		step:     StepWelcome,
		draft:    NewDraft(),
		errs:     FieldErrors{},
	}
	for _, opt := range opts {
		opt(c)
	}
	if !c.step.Valid() {
		return nil, ErrInvalidStep
	}
	return c, nil
}

// Step returns the current position.
func (c *Controller) Step() Step {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.step
}

// Next validates the current step and advances when it passes. From the
// complete step a passing validation leaves the position unchanged.
func (c *Controller) Next() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.mutable(); err != nil {
		return err
	}
	errs := Validate(c.step, c.draft)
	c.errs = errs
	if len(errs) > 0 {
		c.observer.ValidationFailed(c.step, errs.clone())
		return &ValidationError{Step: c.step, Fields: errs.clone()}
	}
	from := c.step
	if c.step < StepComplete {
		c.step++
	}
	if from != c.step {
		c.observer.StepChanged(from, c.step)
	}
	return nil
}

// Previous moves back one step without validating.
func (c *Controller) Previous() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.mutable(); err != nil {
		return err
	}
	from := c.step
	if c.step > StepWelcome {
		c.step--
	}
	if from != c.step {
		c.observer.StepChanged(from, c.step)
	}
	return nil
}

// UpdateField merges the patch into the draft and clears the error of every
// field it touches.
func (c *Controller) UpdateField(p Patch) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.mutable(); err != nil {
		return err
	}
	p.apply(&c.draft)
	for _, f := range p.Fields() {
		delete(c.errs, f)
	}
	return nil
}

// Submit finalizes the draft and hands it to the sink. The lock is released
// while the sink runs so Snapshot can report the submitting state. On failure
// the draft and step are kept for a retry; on success the draft is discarded.
func (c *Controller) Submit(ctx context.Context) (Completion, error) {
	c.mu.Lock()
	if err := c.mutable(); err != nil {
		c.mu.Unlock()
		return Completion{}, err
	}
	if !c.step.Terminal() {
		c.mu.Unlock()
		return Completion{}, ErrNotTerminal
	}
	errs := Validate(c.step, c.draft)
	c.errs = errs
	if len(errs) > 0 {
		c.observer.ValidationFailed(c.step, errs.clone())
		c.mu.Unlock()
		return Completion{}, &ValidationError{Step: c.step, Fields: errs.clone()}
	}
	payload := Payload{Draft: c.draft.Clone(), CreatedAt: c.now().UTC()}
	c.submitting = true
	c.submitErr = nil
	c.mu.Unlock()

	receipt, err := c.sink.Submit(ctx, payload)

	c.mu.Lock()
	defer c.mu.Unlock()
	c.submitting = false
	if c.state == stateClosed {
		c.observer.SubmissionFinished(ErrClosed)
		return Completion{}, ErrClosed
	}
	c.observer.SubmissionFinished(err)
	if err != nil {
		c.submitErr = &SubmitError{Err: err}
		return Completion{}, c.submitErr
	}
	c.state = stateCompleted
	c.draft = Draft{}
	c.errs = FieldErrors{}
	return Completion{Payload: payload, Receipt: receipt}, nil
}

// Close discards the draft. A submission still in flight is abandoned.
func (c *Controller) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.state = stateClosed
	c.draft = Draft{}
	c.errs = FieldErrors{}
	c.submitErr = nil
}

// Completed reports whether a submission succeeded.
func (c *Controller) Completed() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state == stateCompleted
}

// Snapshot is a read-only view for presentation.
type Snapshot struct {
	Step        Step
	Draft       Draft
	Errors      FieldErrors
	Submitting  bool
	SubmitError error
	Open        bool
	Completed   bool
}

// First reports whether the snapshot is at the first step.
func (s Snapshot) First() bool { return s.Step == StepWelcome }

// Last reports whether the snapshot is at the terminal step.
func (s Snapshot) Last() bool { return s.Step.Terminal() }

// Progress is the 1-based position in the sequence.
func (s Snapshot) Progress() int { return int(s.Step) + 1 }

// Snapshot copies the current state.
func (c *Controller) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return Snapshot{
		Step:        c.step,
		Draft:       c.draft.Clone(),
		Errors:      c.errs.clone(),
		Submitting:  c.submitting,
		SubmitError: c.submitErr,
		Open:        c.state == stateOpen,
		Completed:   c.state == stateCompleted,
	}
}

// mutable must be called with mu held.
func (c *Controller) mutable() error {
	if c.state != stateOpen {
		return ErrClosed
	}
	if c.submitting {
		return ErrSubmitting
	}
	return nil
}
