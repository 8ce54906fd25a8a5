// Package discovery turns raw discovery input (an uploaded document, free
// text or both) into a reviewed user story by running the agent pipeline
// and storing the result as an editable session.
package discovery

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"storyforge/internal/agent"
	"storyforge/internal/extract"
	"storyforge/internal/gateway/service/runevents"
	"storyforge/internal/gateway/session"
	"storyforge/internal/llm"
)

// minInputLen is the shortest combined input worth sending to the
// pipeline, measured after trimming.
const minInputLen = 5

var (
	ErrPipelineDisabled = errors.New("discovery: pipeline is not configured")
	ErrInputTooShort    = errors.New("discovery: combined input is too short")
)

// Input is one run request. File fields are optional; Notes is optional;
// at least one of them must yield enough text.
type Input struct {
	RunID    string
	FileName string
	FileData []byte
	Notes    string
}

type Service struct {
	llm        llm.Client
	fetcher    agent.PageFetcher
	projectKey string
	sessions   *session.Store
	hub        *runevents.Hub
}

func New(client llm.Client, fetcher agent.PageFetcher, projectKey string, sessions *session.Store, hub *runevents.Hub) *Service {
	return &Service{
		llm:        client,
		fetcher:    fetcher,
		projectKey: projectKey,
		sessions:   sessions,
		hub:        hub,
	}
}

// Enabled reports whether runs can be executed at all.
func (s *Service) Enabled() bool { return s.llm != nil }

// Run assembles the pipeline input, executes the three stages and stores
// the result. Progress is mirrored to the event hub under in.RunID; the
// final hub event carries the session id.
func (s *Service) Run(ctx context.Context, in Input) (session.Session, error) {
	if !s.Enabled() {
		return session.Session{}, ErrPipelineDisabled
	}
	input, err := BuildInput(in.FileName, in.FileData, in.Notes)
	if err != nil {
		return session.Session{}, err
	}

	s.hub.Register(in.RunID)
	pipe := &agent.Pipeline{
		LLM:        s.llm,
		Fetcher:    s.fetcher,
		ProjectKey: s.projectKey,
		Events:     hubEmitter{hub: s.hub, runID: in.RunID},
	}
	res, err := pipe.Run(ctx, input)
	if err != nil {
		s.hub.Close(in.RunID, runevents.Event{Type: runevents.EventRunFailed, Message: err.Error()})
		return session.Session{}, fmt.Errorf("pipeline: %w", err)
	}

	sess := s.sessions.Create(input, res.Analysis, res.Draft, res.Story)
	s.hub.Close(in.RunID, runevents.Event{Type: runevents.EventRunCompleted, Message: sess.ID})
	return sess, nil
}

// BuildInput combines the extracted document text and the manual notes
// into the pipeline input. Extraction soft failures stay in the text so
// the Analyst sees what happened to the file.
func BuildInput(fileName string, fileData []byte, notes string) (string, error) {
	var parts []string
	if len(fileData) > 0 {
		parts = append(parts, fmt.Sprintf("ARQUIVO (%s):\n%s", fileName, extract.Extract(fileName, fileData)))
	}
	if strings.TrimSpace(notes) != "" {
		parts = append(parts, "OBSERVAÇÕES MANUAIS:\n"+strings.TrimSpace(notes))
	}
	input := strings.Join(parts, "\n\n")
	if len(strings.TrimSpace(input)) < minInputLen {
		return "", ErrInputTooShort
	}
	return input, nil
}

// hubEmitter adapts pipeline stage events to hub events.
type hubEmitter struct {
	hub   *runevents.Hub
	runID string
}

func (e hubEmitter) Emit(evt agent.Event) {
	out := runevents.Event{Stage: string(evt.Stage), Message: evt.Error}
	switch evt.Kind {
	case "started":
		out.Type = runevents.EventStageStarted
	case "completed":
		out.Type = runevents.EventStageCompleted
	case "failed":
		out.Type = runevents.EventStageFailed
	default:
		return
	}
	e.hub.Publish(e.runID, out)
}
