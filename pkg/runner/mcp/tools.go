package mcp

import (
	"context"
	"errors"
	"fmt"

	"github.com/goccy/go-json"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"tableflip.dev/rpt/pkg/research"
)

func stageNames() []string {
	out := make([]string, 0, len(research.Stages()))
	for _, s := range research.Stages() {
		out = append(out, string(s))
	}
	return out
}

func registerTools(srv *server.MCPServer, svc *Service) {
	srv.AddTool(mcp.NewTool("add_idea",
		mcp.WithDescription("Park a new research idea in the idea bank."),
		mcp.WithString("title", mcp.Required(), mcp.Description("Short title of the idea.")),
		mcp.WithString("pitch", mcp.Description("One line pitch.")),
		mcp.WithString("tags", mcp.Description("Comma separated tags.")),
		mcp.WithString("status", mcp.Description("Initial status, parked by default."),
			mcp.Enum("parked", "active", "archived")),
	), addIdeaHandler(svc))

	srv.AddTool(mcp.NewTool("convert_idea",
		mcp.WithDescription("Promote an idea into a new project at the Idea stage and link the two."),
		mcp.WithString("id", mcp.Required(), mcp.Description("Idea id or unique id prefix.")),
	), convertIdeaHandler(svc))

	srv.AddTool(mcp.NewTool("add_project",
		mcp.WithDescription("Start a new active project."),
		mcp.WithString("title", mcp.Required(), mcp.Description("Project title.")),
		mcp.WithString("next_action", mcp.Required(), mcp.Description("The very next concrete step.")),
		mcp.WithString("goal", mcp.Description("What the project is for.")),
		mcp.WithString("stage", mcp.Description("Pipeline stage, Idea by default."), mcp.Enum(stageNames()...)),
		mcp.WithString("priority", mcp.Description("Priority, medium by default."), mcp.Enum("high", "medium", "low")),
	), addProjectHandler(svc))

	srv.AddTool(mcp.NewTool("update_project",
		mcp.WithDescription("Change fields of a project. Omitted fields are kept. Always marks the project as updated now."),
		mcp.WithString("id", mcp.Required(), mcp.Description("Project id or unique id prefix.")),
		mcp.WithString("title", mcp.Description("New title.")),
		mcp.WithString("goal", mcp.Description("New goal.")),
		mcp.WithString("next_action", mcp.Description("New next action.")),
		mcp.WithString("stage", mcp.Description("New stage."), mcp.Enum(stageNames()...)),
		mcp.WithString("priority", mcp.Description("New priority."), mcp.Enum("high", "medium", "low")),
	), updateProjectHandler(svc))

	srv.AddTool(mcp.NewTool("delete_project",
		mcp.WithDescription("Delete a project, its deadlines, and unlink the ideas it came from."),
		mcp.WithString("id", mcp.Required(), mcp.Description("Project id or unique id prefix.")),
	), deleteProjectHandler(svc))

	srv.AddTool(mcp.NewTool("add_deadline",
		mcp.WithDescription("Record a deadline, optionally for a project."),
		mcp.WithString("name", mcp.Required(), mcp.Description("What is due.")),
		mcp.WithString("datetime", mcp.Required(), mcp.Description("RFC3339 instant or local YYYY-MM-DDTHH:MM.")),
		mcp.WithString("type", mcp.Description("hard or soft, hard by default."), mcp.Enum("hard", "soft")),
		mcp.WithString("project_id", mcp.Description("Project id or unique id prefix.")),
	), addDeadlineHandler(svc))

	srv.AddTool(mcp.NewTool("delete_deadline",
		mcp.WithDescription("Delete a deadline. Its project is untouched."),
		mcp.WithString("id", mcp.Required(), mcp.Description("Deadline id or unique id prefix.")),
	), deleteDeadlineHandler(svc))

	srv.AddTool(mcp.NewTool("checkin_summary",
		mcp.WithDescription("Today's check-in: upcoming and overdue deadlines, quiet projects, and the top next actions."),
	), checkinSummaryHandler(svc))

	srv.AddTool(mcp.NewTool("dismiss_checkin",
		mcp.WithDescription("Hide the check-in until tomorrow."),
	), dismissCheckinHandler(svc))
}

func addIdeaHandler(svc *Service) server.ToolHandlerFunc {
	return func(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		var args IdeaArgs
		if err := request.BindArguments(&args); err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("invalid arguments: %v", err)), nil
		}
		idea, err := svc.AddIdea(args)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return toJSONResult(idea)
	}
}

func convertIdeaHandler(svc *Service) server.ToolHandlerFunc {
	return func(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		id, err := request.RequireString("id")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		p, err := svc.ConvertIdea(id)
		if errors.Is(err, ErrNotFound) {
			return toJSONResult(map[string]any{"found": false, "id": id})
		}
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return toJSONResult(p)
	}
}

func addProjectHandler(svc *Service) server.ToolHandlerFunc {
	return func(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		var args ProjectArgs
		if err := request.BindArguments(&args); err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("invalid arguments: %v", err)), nil
		}
		p, err := svc.AddProject(args)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return toJSONResult(p)
	}
}

func updateProjectHandler(svc *Service) server.ToolHandlerFunc {
	return func(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		var args ProjectArgs
		if err := request.BindArguments(&args); err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("invalid arguments: %v", err)), nil
		}
		p, err := svc.UpdateProject(args)
		if errors.Is(err, ErrNotFound) {
			return toJSONResult(map[string]any{"found": false, "id": args.ID})
		}
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return toJSONResult(p)
	}
}

func deleteProjectHandler(svc *Service) server.ToolHandlerFunc {
	return func(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		id, err := request.RequireString("id")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		ok, err := svc.DeleteProject(id)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return toJSONResult(map[string]any{"deleted": ok, "id": id})
	}
}

func addDeadlineHandler(svc *Service) server.ToolHandlerFunc {
	return func(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		var args DeadlineArgs
		if err := request.BindArguments(&args); err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("invalid arguments: %v", err)), nil
		}
		d, err := svc.AddDeadline(args)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return toJSONResult(d)
	}
}

func deleteDeadlineHandler(svc *Service) server.ToolHandlerFunc {
	return func(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		id, err := request.RequireString("id")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		ok, err := svc.DeleteDeadline(id)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return toJSONResult(map[string]any{"deleted": ok, "id": id})
	}
}

func checkinSummaryHandler(svc *Service) server.ToolHandlerFunc {
	return func(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		return toJSONResult(svc.CheckIn())
	}
}

func dismissCheckinHandler(svc *Service) server.ToolHandlerFunc {
	return func(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		settings, err := svc.DismissCheckIn()
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return toJSONResult(settings)
	}
}

func toJSONResult(data any) (*mcp.CallToolResult, error) {
	b, err := json.Marshal(data)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("marshal error: %v", err)), nil
	}
	return mcp.NewToolResultText(string(b)), nil
}
