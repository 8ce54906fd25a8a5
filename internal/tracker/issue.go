package tracker

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/url"
)

// creationComment is added to every issue right after creation. Its
// failure is logged and never propagated.
const creationComment = "História criada e adicionada ao Jira via StoryForge."

var ErrNotConfigured = errors.New("tracker: credentials not configured")

// IssueRequest is the submission-time payload for one ticket. The caller
// validates presence of project, summary, priority and client before
// building one.
type IssueRequest struct {
	ProjectKey  string
	Summary     string
	Description string
	Priority    string
	ClientValue string
	ParamValue  string
	Meta        FieldMeta
}

// IssueResult identifies the created issue.
type IssueResult struct {
	Key string `json:"key"`
	URL string `json:"url"`
}

// buildIssueFields assembles the creation payload: the four standard
// fields plus each tracked custom field that has both an identifier and a
// supplied value. Fields without an id are omitted entirely, not sent as
// null.
func buildIssueFields(req IssueRequest, issueTypeID string) map[string]any {
	fields := map[string]any{
		"project":     map[string]string{"key": req.ProjectKey},
		"summary":     req.Summary,
		"description": req.Description,
		"issuetype":   map[string]string{"id": issueTypeID},
		"priority":    map[string]string{"name": req.Priority},
	}
	addCustomField(fields, req.Meta.Client, req.ClientValue)
	addCustomField(fields, req.Meta.Param, req.ParamValue)
	return fields
}

func addCustomField(fields map[string]any, spec FieldSpec, value string) {
	if spec.ID == "" || value == "" {
		return
	}
	wrapped := map[string]string{"value": value}
	if spec.IsArray {
		fields[spec.ID] = []map[string]string{wrapped}
		return
	}
	fields[spec.ID] = wrapped
}

// CreateIssue resolves the story issue type, submits the creation payload
// and best-effort adds the informational comment. Success is determined
// solely by the creation call; the comment never fails the operation.
func (c *Client) CreateIssue(ctx context.Context, req IssueRequest) (IssueResult, error) {
	if c == nil {
		return IssueResult{}, ErrNotConfigured
	}
	typeID := c.resolveStoryTypeID(ctx, req.ProjectKey)
	fields := buildIssueFields(req, typeID)

	var created struct {
		Key string `json:"key"`
	}
	if err := c.post(ctx, "/rest/api/2/issue", map[string]any{"fields": fields}, &created); err != nil {
		return IssueResult{}, fmt.Errorf("create issue: %w", err)
	}
	if created.Key == "" {
		return IssueResult{}, errors.New("create issue: response carried no key")
	}

	if err := c.addComment(ctx, created.Key, creationComment); err != nil {
		log.Printf("tracker: issue %s created but comment failed: %v", created.Key, err)
	}

	return IssueResult{
		Key: created.Key,
		URL: c.baseURL + "/browse/" + created.Key,
	}, nil
}

func (c *Client) addComment(ctx context.Context, issueKey, body string) error {
	path := "/rest/api/2/issue/" + url.PathEscape(issueKey) + "/comment"
	return c.post(ctx, path, map[string]string{"body": body}, nil)
}
