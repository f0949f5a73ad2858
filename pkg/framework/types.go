package framework

import (
	"context"
	"time"
)

// Named is an abstraction for things with a name.
type Named interface {
	Name() string
}

// Runnable defines a generic interface for background runners.
type Runnable interface {
	Run(context.Context) error
}

// RunFunc is the func form of Runnable.
type RunFunc func(context.Context) error

// Run implements Runnable.
func (f RunFunc) Run(ctx context.Context) error {
	return f(ctx)
}

// Message is anything posted to a Loop. Messages are consumed by
// controllers in the order they were posted.
type Message interface{}

// Controller is invoked once per loop iteration at its stage.
type Controller interface {
	Control(ControlContext) error
}

// ControlFunc defines the func form of Controller.
type ControlFunc func(ControlContext) error

// Control implements Controller.
func (f ControlFunc) Control(cc ControlContext) error {
	return f(cc)
}

// Stage orders controllers within one iteration.
type Stage int

// Predefined stages, executed in ascending order.
const (
	// StageSense is for controllers turning input into messages.
	StageSense Stage = iota
	// StageControl is for the main processing.
	StageControl
	// StageReport is for post-processing such as publishing diagnostics.
	StageReport

	numStages
)

// ControlContext provides the context of current iteration.
type ControlContext interface {
	// Context retrieves context.Context.
	Context() context.Context
	// Time is when the iteration started.
	Time() time.Time
	// Messages gives access to messages collected when
	// this iteration starts.
	Messages() MessageStore

	LoopControl
}

// LoopControl exposes access to the controlling loop.
type LoopControl interface {
	// PostMessage enqueues the message for the next iteration.
	PostMessage(Message)
	// TriggerNext schedules the next iteration to be executed
	// immediately after the current one.
	TriggerNext()
}

// MessageStore gives controllers the messages of an iteration.
type MessageStore interface {
	// ProcessMessages calls fn with each message. Messages for which
	// fn returns true are taken and not seen by later controllers.
	ProcessMessages(fn func(Message) bool)
}
