package agent

import (
	"context"
	"fmt"
	"log"

	"storyforge/internal/llm"
	"storyforge/internal/scrape"
)

// maxWebRefs caps how many URLs out of the discovery input the Analyst's
// web tool will fetch for one run.
const maxWebRefs = 5

// PageFetcher is the Analyst's web tool. Nil disables it.
type PageFetcher interface {
	PageText(ctx context.Context, url string) (string, error)
}

// Event is one pipeline progress notification.
type Event struct {
	Stage Stage  `json:"stage"`
	Kind  string `json:"kind"` // "started", "completed", "failed"
	Error string `json:"error,omitempty"`
}

// Emitter receives pipeline progress events. Nil is allowed.
type Emitter interface {
	Emit(e Event)
}

// Result holds every stage's output. Only Story is user-facing; the two
// intermediates are kept so the user can inspect the agents' reasoning.
type Result struct {
	Analysis string
	Draft    string
	Story    string
}

// Pipeline runs the three tasks strictly in sequence; each task's output is
// the verbatim context of the next. Any stage error aborts the whole run
// with no partial result and no retry.
type Pipeline struct {
	LLM        llm.Client
	Fetcher    PageFetcher
	ProjectKey string
	Events     Emitter
}

func (p *Pipeline) Run(ctx context.Context, input string) (Result, error) {
	refs := p.collectWebRefs(ctx, input)

	analysis, err := p.runTask(ctx, AnalysisTask(input, refs))
	if err != nil {
		return Result{}, fmt.Errorf("analysis: %w", err)
	}
	draft, err := p.runTask(ctx, DraftingTask(analysis))
	if err != nil {
		return Result{}, fmt.Errorf("drafting: %w", err)
	}
	story, err := p.runTask(ctx, PublicationTask(draft, p.ProjectKey))
	if err != nil {
		return Result{}, fmt.Errorf("publication: %w", err)
	}
	return Result{Analysis: analysis, Draft: draft, Story: story}, nil
}

func (p *Pipeline) runTask(ctx context.Context, t Task) (string, error) {
	p.emit(Event{Stage: t.Stage, Kind: "started"})
	ctx = llm.WithStage(ctx, string(t.Stage))
	out, err := p.LLM.GenerateText(ctx, SystemPrompt(t.Role), TaskPrompt(t))
	if err != nil {
		p.emit(Event{Stage: t.Stage, Kind: "failed", Error: err.Error()})
		return "", err
	}
	p.emit(Event{Stage: t.Stage, Kind: "completed"})
	return out, nil
}

// collectWebRefs fetches page text for URLs mentioned in the input. A fetch
// failure degrades to a note in the context; it never aborts the run.
func (p *Pipeline) collectWebRefs(ctx context.Context, input string) []string {
	if p.Fetcher == nil {
		return nil
	}
	urls := scrape.FindURLs(input)
	if len(urls) > maxWebRefs {
		urls = urls[:maxWebRefs]
	}
	var refs []string
	for _, u := range urls {
		text, err := p.Fetcher.PageText(ctx, u)
		if err != nil {
			log.Printf("web ref %s unavailable: %v", u, err)
			refs = append(refs, fmt.Sprintf("REFERÊNCIA WEB (%s): indisponível", u))
			continue
		}
		refs = append(refs, fmt.Sprintf("REFERÊNCIA WEB (%s):\n%s", u, text))
	}
	return refs
}

func (p *Pipeline) emit(e Event) {
	if p.Events != nil {
		p.Events.Emit(e)
	}
}
