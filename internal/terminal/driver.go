// Package terminal walks a registration wizard interactively in the terminal.
package terminal

import (
	"context"
	"errors"
	"fmt"

	"github.com/lusoconnect/onboarding/internal/wizard"
)

// ErrAborted is returned when the user quits before completing.
var ErrAborted = errors.New("registration abandoned")

// Action is the user's navigation choice after answering a step.
type Action int

const (
	ActionNext Action = iota
	ActionBack
	ActionSubmit
	ActionQuit
)

// Prompter asks the questions of a step and the navigation choice. The huh
// implementation is Forms; tests script it.
type Prompter interface {
	Ask(ctx context.Context, s wizard.Snapshot) (wizard.Patch, error)
	Navigate(ctx context.Context, s wizard.Snapshot) (Action, error)
}

// Driver connects a Prompter to a wizard controller.
type Driver struct {
	ctrl     *wizard.Controller
	prompter Prompter
	render   *Renderer
}

// NewDriver builds a driver for ctrl.
func NewDriver(ctrl *wizard.Controller, prompter Prompter, render *Renderer) *Driver {
	return &Driver{ctrl: ctrl, prompter: prompter, render: render}
}

// Run loops until the wizard completes or the user quits. On quit the wizard
// is closed and the draft discarded.
func (d *Driver) Run(ctx context.Context) (wizard.Completion, error) {
	for {
		snap := d.ctrl.Snapshot()
		d.render.Header(snap)
		if len(snap.Errors) > 0 {
			d.render.Errors(snap.Errors)
		}
		if snap.Last() {
			d.render.Summary(snap.Draft)
		}

		patch, err := d.prompter.Ask(ctx, snap)
		if err != nil {
			return d.abort(err)
		}
		if !patch.Empty() {
			if err := d.ctrl.UpdateField(patch); err != nil {
				return wizard.Completion{}, err
			}
		}

		action, err := d.prompter.Navigate(ctx, d.ctrl.Snapshot())
		if err != nil {
			return d.abort(err)
		}

		switch action {
		case ActionNext:
			if err := d.ctrl.Next(); err != nil && !isValidation(err) {
				return wizard.Completion{}, err
			}
		case ActionBack:
			if err := d.ctrl.Previous(); err != nil {
				return wizard.Completion{}, err
			}
		case ActionSubmit:
			done, err := d.ctrl.Submit(ctx)
			if err == nil {
				d.render.Success(done)
				return done, nil
			}
			if isValidation(err) {
				continue
			}
			var serr *wizard.SubmitError
			if !errors.As(err, &serr) {
				return wizard.Completion{}, err
			}
			d.render.Failure(err)
		case ActionQuit:
			return d.abort(nil)
		default:
			return wizard.Completion{}, fmt.Errorf("unknown action %d", action)
		}
	}
}

func (d *Driver) abort(cause error) (wizard.Completion, error) {
	d.ctrl.Close()
	if cause != nil {
		return wizard.Completion{}, fmt.Errorf("%w: %v", ErrAborted, cause)
	}
	return wizard.Completion{}, ErrAborted
}

func isValidation(err error) bool {
	var verr *wizard.ValidationError
	return errors.As(err, &verr)
}
