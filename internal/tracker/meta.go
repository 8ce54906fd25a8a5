package tracker

import (
	"context"
	"log"
	"net/url"
	"strings"
)

// storyTypeNames is the preferred display names for the story-like issue
// type, checked in order, case-insensitively, in both locales the tracker
// instances use.
var storyTypeNames = []string{"História", "Story", "User Story", "Historia"}

// defaultStoryTypeID is the last-resort issue type when the project lookup
// itself fails.
const defaultStoryTypeID = "10001"

// fieldPatterns maps each tracked logical field to the lowercase substrings
// accepted in a custom field's display name. Matching is declarative and
// locale-aware so it stays independently testable (the tracker schema is
// label-dependent and fragile by nature).
var fieldPatterns = map[string][]string{
	"client": {"cliente", "sponsor"},
	"param":  {"parametrização", "parametrizacao"},
}

// FieldSpec describes one tracked custom field of a project.
type FieldSpec struct {
	// ID is the tracker's machine identifier ("" when the project has no
	// matching field; callers must then omit the field entirely).
	ID      string   `json:"id"`
	IsArray bool     `json:"is_array"`
	Options []string `json:"options"`
}

// FieldMeta is the per-project custom-field metadata used to build an
// issue payload. An empty skeleton means "feature unavailable for this
// project", never an error.
type FieldMeta struct {
	Client FieldSpec `json:"client"`
	Param  FieldSpec `json:"param"`
}

// emptyFieldMeta is the unavailable-feature skeleton. Options stay empty
// slices, never nil, so the listing serializes as [] for the form.
func emptyFieldMeta() FieldMeta {
	return FieldMeta{
		Client: FieldSpec{Options: []string{}},
		Param:  FieldSpec{Options: []string{}},
	}
}

type metaField struct {
	Name   string `json:"name"`
	Schema struct {
		Type string `json:"type"`
	} `json:"schema"`
	AllowedValues []struct {
		Value string `json:"value"`
	} `json:"allowedValues"`
}

type metaIssueType struct {
	ID      string               `json:"id"`
	Name    string               `json:"name"`
	Subtask bool                 `json:"subtask"`
	Fields  map[string]metaField `json:"fields"`
}

// FieldMeta fetches the issue-creation metadata for the project and scans
// it for the two tracked fields. Any transport or shape failure returns
// the empty skeleton.
func (c *Client) FieldMeta(ctx context.Context, projectKey string) FieldMeta {
	meta := emptyFieldMeta()
	if c == nil || strings.TrimSpace(projectKey) == "" {
		return meta
	}
	var res struct {
		Projects []struct {
			IssueTypes []metaIssueType `json:"issuetypes"`
		} `json:"projects"`
	}
	path := "/rest/api/2/issue/createmeta?projectKeys=" + url.QueryEscape(projectKey) +
		"&expand=projects.issuetypes.fields"
	if err := c.get(ctx, path, &res); err != nil {
		log.Printf("tracker: createmeta for %s failed: %v", projectKey, err)
		return meta
	}
	if len(res.Projects) == 0 || len(res.Projects[0].IssueTypes) == 0 {
		return meta
	}
	story := pickStoryType(res.Projects[0].IssueTypes)
	return matchCustomFields(story.Fields)
}

// pickStoryType returns the first issue type whose name is in the
// preference list, falling back to the first available type.
func pickStoryType(types []metaIssueType) metaIssueType {
	for _, want := range storyTypeNames {
		for _, t := range types {
			if strings.EqualFold(t.Name, want) {
				return t
			}
		}
	}
	return types[0]
}

// matchCustomFields scans every field's lowercased display name against
// the pattern table. Pure; independent of transport.
func matchCustomFields(fields map[string]metaField) FieldMeta {
	meta := emptyFieldMeta()
	for id, f := range fields {
		name := strings.ToLower(f.Name)
		if matchesAny(name, fieldPatterns["client"]) {
			meta.Client = newFieldSpec(id, f)
		}
		if matchesAny(name, fieldPatterns["param"]) {
			meta.Param = newFieldSpec(id, f)
		}
	}
	return meta
}

func matchesAny(name string, patterns []string) bool {
	for _, p := range patterns {
		if strings.Contains(name, p) {
			return true
		}
	}
	return false
}

func newFieldSpec(id string, f metaField) FieldSpec {
	spec := FieldSpec{
		ID:      id,
		IsArray: f.Schema.Type == "array",
		Options: []string{},
	}
	for _, v := range f.AllowedValues {
		spec.Options = append(spec.Options, v.Value)
	}
	return spec
}

// resolveStoryTypeID looks up the project's story-like issue type id with
// the same preference rule as FieldMeta, then falls back to the first
// non-subtask, non-bug type, then to the hardcoded default.
func (c *Client) resolveStoryTypeID(ctx context.Context, projectKey string) string {
	if c == nil {
		return defaultStoryTypeID
	}
	var res struct {
		IssueTypes []struct {
			ID      string `json:"id"`
			Name    string `json:"name"`
			Subtask bool   `json:"subtask"`
		} `json:"issueTypes"`
	}
	if err := c.get(ctx, "/rest/api/2/project/"+url.PathEscape(projectKey), &res); err != nil {
		log.Printf("tracker: project %s lookup failed: %v", projectKey, err)
		return defaultStoryTypeID
	}
	for _, want := range storyTypeNames {
		for _, t := range res.IssueTypes {
			if strings.EqualFold(t.Name, want) {
				return t.ID
			}
		}
	}
	for _, t := range res.IssueTypes {
		if !t.Subtask && !strings.Contains(strings.ToLower(t.Name), "bug") {
			return t.ID
		}
	}
	return defaultStoryTypeID
}
