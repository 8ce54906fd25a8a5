package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"storyforge/internal/gateway/config"
	"storyforge/internal/gateway/service/discovery"
	"storyforge/internal/gateway/service/publish"
	"storyforge/internal/gateway/service/runevents"
	"storyforge/internal/gateway/session"
	"storyforge/internal/llm"
)

type testEnv struct {
	cfg      *config.Config
	sessions *session.Store
	hub      *runevents.Hub
	disc     *discovery.Service
	pub      *publish.Service
}

func newTestEnv(client llm.Client) *testEnv {
	cfg := &config.Config{}
	if client != nil {
		cfg.Gemini.APIKey = "test"
	}
	cfg.Tracker.ProjectKey = "CWS"
	sessions := session.NewStore()
	hub := runevents.NewHub()
	return &testEnv{
		cfg:      cfg,
		sessions: sessions,
		hub:      hub,
		disc:     discovery.New(client, nil, "CWS", sessions, hub),
		pub:      publish.New(nil, "CWS"),
	}
}

func multipartBody(t *testing.T, fields map[string]string, fileName string, fileData []byte) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for k, v := range fields {
		if err := mw.WriteField(k, v); err != nil {
			t.Fatalf("WriteField: %v", err)
		}
	}
	if fileName != "" {
		fw, err := mw.CreateFormFile("file", fileName)
		if err != nil {
			t.Fatalf("CreateFormFile: %v", err)
		}
		fw.Write(fileData)
	}
	mw.Close()
	return &buf, mw.FormDataContentType()
}

func TestHandleStatus(t *testing.T) {
	env := newTestEnv(llm.NewFakeClient())
	h := NewStatusHandler(env.cfg, env.pub)

	rec := httptest.NewRecorder()
	h.HandleStatus(rec, httptest.NewRequest(http.MethodGet, "/api/status", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var out struct {
		PipelineEnabled bool `json:"pipeline_enabled"`
		TrackerEnabled  bool `json:"tracker_enabled"`
		ProjectCount    int  `json:"project_count"`
	}
	json.NewDecoder(rec.Body).Decode(&out)
	if !out.PipelineEnabled || out.TrackerEnabled {
		t.Fatalf("flags = %+v", out)
	}
	if out.ProjectCount != 1 {
		t.Fatalf("project count = %d, want fallback project", out.ProjectCount)
	}
}

func TestHandleRun(t *testing.T) {
	env := newTestEnv(llm.NewFakeClient("análise", "rascunho", "# História\ncorpo"))
	h := NewDiscoveryHandler(env.disc)

	body, contentType := multipartBody(t, map[string]string{"text": "quero exportar relatórios"}, "", nil)
	req := httptest.NewRequest(http.MethodPost, "/api/discovery/run", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	h.HandleRun(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body)
	}
	var out struct {
		SessionID string `json:"session_id"`
		Story     string `json:"story"`
		Title     string `json:"title"`
	}
	json.NewDecoder(rec.Body).Decode(&out)
	if out.Title != "História" || out.Story == "" {
		t.Fatalf("response = %+v", out)
	}
	if _, err := env.sessions.Get(out.SessionID); err != nil {
		t.Fatalf("session not stored: %v", err)
	}
}

func TestHandleRunWithFile(t *testing.T) {
	fake := llm.NewFakeClient()
	env := newTestEnv(fake)
	h := NewDiscoveryHandler(env.disc)

	body, contentType := multipartBody(t, map[string]string{"text": ""}, "notas.txt", []byte("requisitos do cliente em texto"))
	req := httptest.NewRequest(http.MethodPost, "/api/discovery/run", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	h.HandleRun(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body)
	}
	calls := fake.Calls()
	if len(calls) != 3 {
		t.Fatalf("expected 3 pipeline calls, got %d", len(calls))
	}
	if !strings.Contains(calls[0].Prompt, "ARQUIVO (notas.txt):") {
		t.Fatalf("analysis prompt missing file section: %q", calls[0].Prompt)
	}
}

func TestHandleRunShortInput(t *testing.T) {
	env := newTestEnv(llm.NewFakeClient())
	h := NewDiscoveryHandler(env.disc)

	body, contentType := multipartBody(t, map[string]string{"text": "oi"}, "", nil)
	req := httptest.NewRequest(http.MethodPost, "/api/discovery/run", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	h.HandleRun(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d", rec.Code)
	}
}

func TestHandleRunPipelineDisabled(t *testing.T) {
	env := newTestEnv(nil)
	h := NewDiscoveryHandler(env.disc)

	body, contentType := multipartBody(t, map[string]string{"text": "texto longo o bastante"}, "", nil)
	req := httptest.NewRequest(http.MethodPost, "/api/discovery/run", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	h.HandleRun(rec, req)
	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("status = %d", rec.Code)
	}
}

func newSessionRouter(sessions *session.Store) http.Handler {
	h := NewSessionHandler(sessions)
	mux := http.NewServeMux()
	mux.HandleFunc("/api/sessions/{id}/story", h.HandleStory)
	mux.HandleFunc("/api/sessions/{id}/export", h.HandleExport)
	return mux
}

func TestHandleStoryGetAndPut(t *testing.T) {
	sessions := session.NewStore()
	sess := sessions.Create("entrada", "a", "d", "# Título\ncorpo")
	router := newSessionRouter(sessions)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/sessions/"+sess.ID+"/story", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("GET status = %d", rec.Code)
	}

	payload := bytes.NewBufferString(`{"story":"# Outro\nnovo corpo"}`)
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPut, "/api/sessions/"+sess.ID+"/story", payload))
	if rec.Code != http.StatusOK {
		t.Fatalf("PUT status = %d", rec.Code)
	}
	var out session.Session
	json.NewDecoder(rec.Body).Decode(&out)
	if out.Title != "Outro" {
		t.Fatalf("title after edit = %q", out.Title)
	}

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/sessions/desconhecida/story", nil))
	if rec.Code != http.StatusNotFound {
		t.Fatalf("unknown session status = %d", rec.Code)
	}
}

func TestHandleExport(t *testing.T) {
	sessions := session.NewStore()
	sess := sessions.Create("entrada", "a", "d", "# Título\ncorpo da história")
	router := newSessionRouter(sessions)

	cases := []struct {
		format string
		mime   string
	}{
		{"docx", "application/vnd.openxmlformats-officedocument.wordprocessingml.document"},
		{"pdf", "application/pdf"},
		{"txt", "text/plain; charset=utf-8"},
		{"md", "text/markdown; charset=utf-8"},
	}
	for _, tc := range cases {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/sessions/"+sess.ID+"/export?format="+tc.format, nil))
		if rec.Code != http.StatusOK {
			t.Fatalf("%s status = %d", tc.format, rec.Code)
		}
		if got := rec.Header().Get("Content-Type"); got != tc.mime {
			t.Fatalf("%s content type = %q", tc.format, got)
		}
		if got := rec.Header().Get("Content-Disposition"); got != "attachment; filename=historia."+tc.format {
			t.Fatalf("%s disposition = %q", tc.format, got)
		}
		if data, _ := io.ReadAll(rec.Body); len(data) == 0 {
			t.Fatalf("%s export is empty", tc.format)
		}
	}

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/sessions/"+sess.ID+"/export?format=odt", nil))
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("unsupported format status = %d", rec.Code)
	}
}

func TestHandleExportNoStory(t *testing.T) {
	sessions := session.NewStore()
	sess := sessions.Create("entrada", "a", "d", "  \n ")
	router := newSessionRouter(sessions)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/sessions/"+sess.ID+"/export?format=txt", nil))
	if rec.Code != http.StatusNotFound {
		t.Fatalf("empty story export status = %d", rec.Code)
	}
}

func TestHandleCreateIssueValidation(t *testing.T) {
	env := newTestEnv(nil)
	h := NewTrackerHandler(env.pub)

	// tracker unconfigured
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/tracker/issue",
		bytes.NewBufferString(`{"project_key":"CWS","summary":"s","priority":"Medium"}`))
	h.HandleCreateIssue(rec, req)
	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("status = %d", rec.Code)
	}
}

func TestHandleFieldsRequiresProject(t *testing.T) {
	env := newTestEnv(nil)
	h := NewTrackerHandler(env.pub)

	rec := httptest.NewRecorder()
	h.HandleFields(rec, httptest.NewRequest(http.MethodGet, "/api/tracker/fields", nil))
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d", rec.Code)
	}
}

func TestHandleTrackerListings(t *testing.T) {
	env := newTestEnv(nil)
	h := NewTrackerHandler(env.pub)

	rec := httptest.NewRecorder()
	h.HandleProjects(rec, httptest.NewRequest(http.MethodGet, "/api/tracker/projects", nil))
	var projects struct {
		Projects map[string]string `json:"projects"`
	}
	json.NewDecoder(rec.Body).Decode(&projects)
	if projects.Projects["CWS"] != "CWS Default" {
		t.Fatalf("projects = %v", projects.Projects)
	}

	rec = httptest.NewRecorder()
	h.HandlePriorities(rec, httptest.NewRequest(http.MethodGet, "/api/tracker/priorities", nil))
	var priorities struct {
		Priorities []string `json:"priorities"`
	}
	json.NewDecoder(rec.Body).Decode(&priorities)
	if len(priorities.Priorities) != 1 || priorities.Priorities[0] != "Medium" {
		t.Fatalf("priorities = %v", priorities.Priorities)
	}
}

func TestHandleRunWithWatcher(t *testing.T) {
	env := newTestEnv(llm.NewFakeClient())
	h := NewDiscoveryHandler(env.disc)

	env.hub.Register("run-observado")
	ch, err := env.hub.Subscribe(context.Background(), "run-observado")
	if err != nil {
		t.Fatalf("Subscribe: %v", err)
	}

	body, contentType := multipartBody(t, map[string]string{
		"text":   "texto longo o bastante para rodar",
		"run_id": "run-observado",
	}, "", nil)
	req := httptest.NewRequest(http.MethodPost, "/api/discovery/run", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	h.HandleRun(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}

	var count int
	for range ch {
		count++
	}
	if count != 7 {
		t.Fatalf("watcher saw %d events", count)
	}
}
