package mcp

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/mark3labs/mcp-go/mcp"

	"tableflip.dev/rpt/pkg/app"
	"tableflip.dev/rpt/pkg/research"
	"tableflip.dev/rpt/pkg/store/storetest"
)

var now = time.Date(2025, 5, 12, 10, 30, 0, 0, time.UTC)

func newTestService(t *testing.T) *Service {
	t.Helper()
	n := 0
	tr := app.Open(storetest.NewMemory(nil),
		app.WithClock(func() time.Time { return now }),
		app.WithIDs(func() string {
			n++
			return fmt.Sprintf("id-%d", n)
		}),
	)
	return NewService(tr)
}

func callTool(name string, args map[string]any) mcp.CallToolRequest {
	return mcp.CallToolRequest{
		Params: mcp.CallToolParams{
			Name:      name,
			Arguments: args,
		},
	}
}

func toolText(t *testing.T, result *mcp.CallToolResult) string {
	t.Helper()
	if len(result.Content) == 0 {
		t.Fatal("no content in result")
	}
	tc, ok := result.Content[0].(mcp.TextContent)
	if !ok {
		t.Fatalf("expected TextContent, got %T", result.Content[0])
	}
	return tc.Text
}

func TestAddIdeaAndConvert(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	result, err := addIdeaHandler(svc)(ctx, callTool("add_idea", map[string]any{
		"title": "X",
		"pitch": "Y",
		"tags":  "ml, nlp",
	}))
	if err != nil || result.IsError {
		t.Fatalf("add_idea failed: %v %s", err, toolText(t, result))
	}
	var idea research.Idea
	if err := json.Unmarshal([]byte(toolText(t, result)), &idea); err != nil {
		t.Fatal(err)
	}
	if idea.Status != research.IdeaParked || len(idea.Tags) != 2 {
		t.Fatalf("unexpected idea %+v", idea)
	}

	result, err = convertIdeaHandler(svc)(ctx, callTool("convert_idea", map[string]any{"id": idea.ID}))
	if err != nil || result.IsError {
		t.Fatalf("convert_idea failed: %v", err)
	}
	var project research.Project
	if err := json.Unmarshal([]byte(toolText(t, result)), &project); err != nil {
		t.Fatal(err)
	}
	if project.Title != "X" || project.Goal != "Y" || project.NextAction != "Define first step" {
		t.Fatalf("unexpected project %+v", project)
	}
	got, _ := svc.Tracker.Idea(idea.ID)
	if got.LinkedProjectID != project.ID || got.Status != research.IdeaActive {
		t.Fatalf("idea not linked: %+v", got)
	}
}

func TestConvertMissingIdeaIsNotAnError(t *testing.T) {
	svc := newTestService(t)
	result, err := convertIdeaHandler(svc)(context.Background(), callTool("convert_idea", map[string]any{"id": "nope"}))
	if err != nil || result.IsError {
		t.Fatalf("expected a plain result, got %v", err)
	}
	if !strings.Contains(toolText(t, result), `"found":false`) {
		t.Fatalf("unexpected %s", toolText(t, result))
	}
}

func TestAddIdeaRequiresTitle(t *testing.T) {
	svc := newTestService(t)
	result, err := addIdeaHandler(svc)(context.Background(), callTool("add_idea", map[string]any{"title": "  "}))
	if err != nil {
		t.Fatal(err)
	}
	if !result.IsError {
		t.Fatalf("expected tool error")
	}
}

func TestUpdateProjectKeepsOmittedFields(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()
	p, err := svc.AddProject(ProjectArgs{Title: ptr("Survey"), NextAction: ptr("outline"), Priority: ptr("high")})
	if err != nil {
		t.Fatal(err)
	}
	result, err := updateProjectHandler(svc)(ctx, callTool("update_project", map[string]any{
		"id":    p.ID,
		"stage": "writing",
	}))
	if err != nil || result.IsError {
		t.Fatalf("update_project failed: %v", err)
	}
	got, _ := svc.Tracker.Project(p.ID)
	if got.Stage != research.StageWriting || got.Priority != research.PriorityHigh || got.NextAction != "outline" {
		t.Fatalf("unexpected project %+v", got)
	}

	result, _ = updateProjectHandler(svc)(ctx, callTool("update_project", map[string]any{"id": p.ID, "priority": "urgent"}))
	if !result.IsError {
		t.Fatalf("expected error for bad priority")
	}
}

func TestDeleteProjectCascadesThroughTools(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()
	p, _ := svc.AddProject(ProjectArgs{Title: ptr("A"), NextAction: ptr("b")})
	result, err := addDeadlineHandler(svc)(ctx, callTool("add_deadline", map[string]any{
		"name":       "camera ready",
		"datetime":   "2025-05-13T10:30:00Z",
		"project_id": p.ID,
	}))
	if err != nil || result.IsError {
		t.Fatalf("add_deadline failed: %v %s", err, toolText(t, result))
	}
	if text := toolText(t, result); !strings.Contains(text, `"tone":"today"`) && !strings.Contains(text, `"tone":"soon"`) {
		t.Fatalf("expected a countdown in %s", text)
	}

	result, _ = deleteProjectHandler(svc)(ctx, callTool("delete_project", map[string]any{"id": p.ID}))
	if !strings.Contains(toolText(t, result), `"deleted":true`) {
		t.Fatalf("unexpected %s", toolText(t, result))
	}
	if len(svc.Tracker.Deadlines()) != 0 {
		t.Fatalf("deadline survived cascade")
	}
}

func TestCheckinTools(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()
	if _, err := svc.AddProject(ProjectArgs{Title: ptr("A"), NextAction: ptr("write intro")}); err != nil {
		t.Fatal(err)
	}

	result, _ := checkinSummaryHandler(svc)(ctx, callTool("checkin_summary", nil))
	var view CheckInView
	if err := json.Unmarshal([]byte(toolText(t, result)), &view); err != nil {
		t.Fatal(err)
	}
	if !view.Due || len(view.Summary.TopActions) != 1 {
		t.Fatalf("unexpected view %+v", view)
	}

	if result, _ := dismissCheckinHandler(svc)(ctx, callTool("dismiss_checkin", nil)); result.IsError {
		t.Fatalf("dismiss failed")
	}
	if svc.CheckIn().Due {
		t.Fatalf("check-in still due after dismiss")
	}
}

func TestResources(t *testing.T) {
	svc := newTestService(t)
	if _, err := svc.AddIdea(IdeaArgs{Title: "resource idea"}); err != nil {
		t.Fatal(err)
	}
	contents, err := ideasResource(svc)(context.Background(), mcp.ReadResourceRequest{
		Params: mcp.ReadResourceParams{URI: "rpt://ideas"},
	})
	if err != nil {
		t.Fatal(err)
	}
	tc, ok := contents[0].(mcp.TextResourceContents)
	if !ok {
		t.Fatalf("expected TextResourceContents, got %T", contents[0])
	}
	if !strings.Contains(tc.Text, "resource idea") || !strings.Contains(tc.Text, `"count":1`) {
		t.Fatalf("unexpected %s", tc.Text)
	}
}

func TestRouterHealth(t *testing.T) {
	svc := newTestService(t)
	r := Runner{Tracker: svc.Tracker}
	handler, err := r.router(NewServer("rpt", "test", svc))
	if err != nil {
		t.Fatal(err)
	}
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), "ok") {
		t.Fatalf("healthz: %d %s", rec.Code, rec.Body.String())
	}

	if _, err := (Runner{HTTPServerCert: "cert.pem"}).router(nil); err == nil {
		t.Fatalf("expected error for cert without key")
	}
}

func ptr(s string) *string {
	return &s
}
