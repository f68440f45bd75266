package livesync

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/koligo/koligo/types"
	"github.com/nicolasparada/go-errs"
	"golang.org/x/sync/errgroup"
)

var ErrBusy = errors.New("livesync: another confirmation is in flight")

// TrackingSession is the live view of one assignment:
// its derived status and its tracking timeline.
type TrackingSession struct {
	Gateway  *Gateway
	Logger   *slog.Logger
	OnUpdate func(types.AssignmentView, []types.TrackingEvent)

	events      *Manager
	assignments *Manager
	timeline    *List[types.TrackingEvent]
	busy        atomic.Bool

	mu           sync.Mutex
	assignmentID string
	assignment   types.AssignmentView
	loading      bool
	buffer       []types.TrackingEvent
}

func NewTrackingSession(gw *Gateway) *TrackingSession {
	s := &TrackingSession{
		Gateway:  gw,
		Logger:   gw.Logger,
		timeline: NewList[types.TrackingEvent](DefaultMaxItems),
	}

	s.events = NewManager(gw.Backend, types.TableTrackingEvents, "assignment_id", s.deliverEvent)
	s.events.Logger = gw.Logger
	s.events.OnReconnect = s.reload

	s.assignments = NewManager(gw.Backend, types.TableAssignments, "id", s.deliverAssignment)
	s.assignments.Logger = gw.Logger
	s.assignments.OnReconnect = s.reload

	return s
}

func (s *TrackingSession) Assignment() types.AssignmentView {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.assignment
}

// Status is derived from the assignment fields on every call.
func (s *TrackingSession) Status() types.AssignmentStatus {
	return s.Assignment().Assignment.Status()
}

func (s *TrackingSession) SetMaxItems(n int) {
	s.timeline.SetMaxItems(n)
}

func (s *TrackingSession) Events() []types.TrackingEvent {
	return s.timeline.Items()
}

// Busy reports whether a confirmation is in flight.
func (s *TrackingSession) Busy() bool {
	return s.busy.Load()
}

// Open switches the session to the given assignment.
func (s *TrackingSession) Open(ctx context.Context, assignmentID string) error {
	if assignmentID == "" {
		return ErrEmptyScope
	}

	if s.events.Scope() == assignmentID && s.assignments.Scope() == assignmentID {
		return nil
	}

	s.mu.Lock()
	s.assignmentID = assignmentID
	s.assignment = types.AssignmentView{}
	s.loading = true
	s.buffer = nil
	s.timeline.Reset()
	s.mu.Unlock()

	err := errors.Join(
		s.events.Activate(ctx, assignmentID),
		s.assignments.Activate(ctx, assignmentID),
	)
	if err != nil {
		s.Close()
		return err
	}

	assignment, events, err := s.fetch(ctx, assignmentID)
	if err != nil {
		s.Logger.Error("could not load tracking", "assignment_id", assignmentID, "err", err)
		s.finishLoading(nil, nil)
		s.Close()
		return err
	}

	s.finishLoading(&assignment, events)
	return nil
}

func (s *TrackingSession) fetch(ctx context.Context, assignmentID string) (types.AssignmentView, []types.TrackingEvent, error) {
	ctx, cancel := withTimeout(ctx, s.Gateway.Timeout)
	defer cancel()

	var assignment types.AssignmentView
	var events []types.TrackingEvent

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		assignment, err = s.Gateway.Backend.Assignment(gctx, assignmentID)
		if err != nil {
			return fmt.Errorf("assignment: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		events, err = s.Gateway.Backend.TrackingEvents(gctx, assignmentID)
		if err != nil {
			return fmt.Errorf("tracking events: %w", err)
		}
		return nil
	})

	return assignment, events, g.Wait()
}

func (s *TrackingSession) finishLoading(assignment *types.AssignmentView, events []types.TrackingEvent) {
	s.mu.Lock()
	if assignment != nil {
		s.setAssignmentLocked(assignment.Assignment)
	}
	if events != nil {
		s.timeline.Load(events)
	}
	s.timeline.Merge(s.buffer...)
	s.buffer = nil
	s.loading = false
	s.mu.Unlock()

	s.updated()
}

// ConfirmPickup moves the assignment from ready for pickup to in transit.
func (s *TrackingSession) ConfirmPickup(ctx context.Context, in types.ConfirmStep) error {
	return s.confirm(ctx, in, types.AssignmentActionConfirmPickup, s.Gateway.ConfirmPickup)
}

// ConfirmDelivery moves the assignment from in transit to delivered.
func (s *TrackingSession) ConfirmDelivery(ctx context.Context, in types.ConfirmStep) error {
	return s.confirm(ctx, in, types.AssignmentActionConfirmDelivery, s.Gateway.ConfirmDelivery)
}

func (s *TrackingSession) confirm(
	ctx context.Context,
	in types.ConfirmStep,
	action types.AssignmentAction,
	confirm func(context.Context, types.ConfirmStep) (types.StepConfirmed, error),
) error {
	if !s.busy.CompareAndSwap(false, true) {
		return ErrBusy
	}
	defer s.busy.Store(false)

	assignment := s.Assignment()
	if assignment.ID == "" {
		return ErrEmptyScope
	}

	if next, ok := assignment.NextAction(); !ok || next != action {
		return errs.InvalidArgumentError(fmt.Sprintf("assignment is %s", assignment.Assignment.Status()))
	}

	in.AssignmentID = assignment.ID
	out, err := confirm(ctx, in)
	if err != nil {
		return err
	}

	s.mu.Lock()
	if out.Assignment.ID == s.assignmentID {
		s.setAssignmentLocked(out.Assignment)
		s.timeline.Append(out.Event)
	}
	s.mu.Unlock()

	s.updated()
	return nil
}

// LogEvent appends a hand written tracking event to the open assignment.
func (s *TrackingSession) LogEvent(ctx context.Context, in types.CreateTrackingEvent) (types.TrackingEvent, error) {
	in.AssignmentID = s.Assignment().ID
	out, err := s.Gateway.LogTrackingEvent(ctx, in)
	if err != nil {
		return out, err
	}

	s.mergeEvent(out)
	return out, nil
}

func (s *TrackingSession) Close() {
	s.events.Deactivate()
	s.assignments.Deactivate()

	s.mu.Lock()
	s.assignmentID = ""
	s.buffer = nil
	s.loading = false
	s.mu.Unlock()
}

func (s *TrackingSession) setAssignmentLocked(a types.Assignment) {
	// updated_at only moves forward.
	if s.assignment.ID == a.ID && a.UpdatedAt.Before(s.assignment.UpdatedAt) {
		return
	}
	s.assignment = types.NewAssignmentView(a)
}

func (s *TrackingSession) deliverEvent(c types.Change) {
	var e types.TrackingEvent
	if err := c.Decode(&e); err != nil {
		s.Logger.Error("could not decode tracking event change", "err", err)
		return
	}

	s.mergeEvent(e)
}

func (s *TrackingSession) mergeEvent(e types.TrackingEvent) {
	s.mu.Lock()
	if e.AssignmentID != s.assignmentID {
		s.mu.Unlock()
		return
	}

	if s.loading {
		s.buffer = append(s.buffer, e)
		s.mu.Unlock()
		return
	}

	s.timeline.Append(e)
	s.mu.Unlock()

	s.updated()
}

func (s *TrackingSession) deliverAssignment(c types.Change) {
	var a types.Assignment
	if err := c.Decode(&a); err != nil {
		s.Logger.Error("could not decode assignment change", "err", err)
		return
	}

	s.mu.Lock()
	if a.ID != s.assignmentID {
		s.mu.Unlock()
		return
	}
	s.setAssignmentLocked(a)
	s.mu.Unlock()

	s.updated()
}

func (s *TrackingSession) reload(ctx context.Context) {
	s.mu.Lock()
	assignmentID := s.assignmentID
	s.mu.Unlock()

	if assignmentID == "" {
		return
	}

	assignment, events, err := s.fetch(ctx, assignmentID)
	if err != nil {
		s.Logger.Error("could not reload tracking", "assignment_id", assignmentID, "err", err)
		return
	}

	s.mu.Lock()
	if assignmentID == s.assignmentID {
		s.setAssignmentLocked(assignment.Assignment)
		s.timeline.Merge(events...)
	}
	s.mu.Unlock()

	s.updated()
}

func (s *TrackingSession) updated() {
	if s.OnUpdate != nil {
		s.OnUpdate(s.Assignment(), s.timeline.Items())
	}
}
