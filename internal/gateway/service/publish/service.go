// Package publish submits a finished story to the tracker. Submission is
// always an explicit user action: validation happens on trigger, a failed
// attempt stays failed until manually re-triggered.
package publish

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"storyforge/internal/tracker"
)

// State is the submission lifecycle of the service. Transitions are
// Idle→Validating→Creating→{Succeeded,Failed}; any new trigger restarts
// from Validating.
type State string

const (
	StateIdle       State = "idle"
	StateValidating State = "validating"
	StateCreating   State = "creating"
	StateSucceeded  State = "succeeded"
	StateFailed     State = "failed"
)

// ErrBlocked means the project's client field exists but exposes no
// selectable options, so no valid payload can be built.
var ErrBlocked = errors.New("publish: client field has no selectable options")

// ValidationError lists the fields the user still has to fill in.
type ValidationError struct {
	Missing []string
}

func (e *ValidationError) Error() string {
	return "publish: missing required fields: " + strings.Join(e.Missing, ", ")
}

// Request is one submission attempt.
type Request struct {
	ProjectKey  string `json:"project_key"`
	Summary     string `json:"summary"`
	Description string `json:"description"`
	Priority    string `json:"priority"`
	ClientValue string `json:"client_value"`
	ParamValue  string `json:"param_value"`
}

// Options is what the submission form offers. Both listings fall back to
// built-in defaults when the tracker is unreachable or unconfigured.
type Options struct {
	Projects   map[string]string `json:"projects"`
	Priorities []string          `json:"priorities"`
}

type Service struct {
	client     *tracker.Client
	projectKey string

	mu    sync.Mutex
	state State
}

// New wires the service; client may be nil (tracker unconfigured).
// projectKey is the default project offered when the listing fails.
func New(client *tracker.Client, projectKey string) *Service {
	if projectKey == "" {
		projectKey = "CWS"
	}
	return &Service{client: client, projectKey: projectKey, state: StateIdle}
}

func (s *Service) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

func (s *Service) setState(st State) {
	s.mu.Lock()
	s.state = st
	s.mu.Unlock()
}

// Enabled reports whether live tracker submission is possible.
func (s *Service) Enabled() bool { return s.client.Configured() }

// Options returns the project and priority choices, substituting the
// defaults for empty listings.
func (s *Service) Options(ctx context.Context) Options {
	projects := s.client.ListProjects(ctx)
	if len(projects) == 0 {
		projects = map[string]string{s.projectKey: "CWS Default"}
	}
	priorities := s.client.ListPriorities(ctx)
	if len(priorities) == 0 {
		priorities = []string{"Medium"}
	}
	return Options{Projects: projects, Priorities: priorities}
}

// FieldMeta exposes the per-project custom-field metadata for the form.
func (s *Service) FieldMeta(ctx context.Context, projectKey string) tracker.FieldMeta {
	return s.client.FieldMeta(ctx, projectKey)
}

// Validate checks the request against the project's field metadata. The
// client value is always required; a project whose metadata offers no
// selectable client options blocks submission entirely, since no valid
// value can exist.
func Validate(req Request, meta tracker.FieldMeta) error {
	if len(meta.Client.Options) == 0 {
		return ErrBlocked
	}
	var missing []string
	if strings.TrimSpace(req.ProjectKey) == "" {
		missing = append(missing, "project_key")
	}
	if strings.TrimSpace(req.Summary) == "" {
		missing = append(missing, "summary")
	}
	if strings.TrimSpace(req.Priority) == "" {
		missing = append(missing, "priority")
	}
	if strings.TrimSpace(req.ClientValue) == "" {
		missing = append(missing, "client_value")
	}
	if len(missing) > 0 {
		return &ValidationError{Missing: missing}
	}
	return nil
}

// Publish runs one submission attempt through the state machine. The
// returned error is a *ValidationError, ErrBlocked, tracker.ErrNotConfigured
// or a wrapped creation failure.
func (s *Service) Publish(ctx context.Context, req Request) (tracker.IssueResult, error) {
	s.setState(StateValidating)
	if !s.Enabled() {
		s.setState(StateFailed)
		return tracker.IssueResult{}, tracker.ErrNotConfigured
	}

	meta := s.client.FieldMeta(ctx, req.ProjectKey)
	if err := Validate(req, meta); err != nil {
		s.setState(StateFailed)
		return tracker.IssueResult{}, err
	}

	s.setState(StateCreating)
	res, err := s.client.CreateIssue(ctx, tracker.IssueRequest{
		ProjectKey:  req.ProjectKey,
		Summary:     req.Summary,
		Description: req.Description,
		Priority:    req.Priority,
		ClientValue: req.ClientValue,
		ParamValue:  req.ParamValue,
		Meta:        meta,
	})
	if err != nil {
		s.setState(StateFailed)
		return tracker.IssueResult{}, fmt.Errorf("publish: %w", err)
	}
	s.setState(StateSucceeded)
	return res, nil
}
