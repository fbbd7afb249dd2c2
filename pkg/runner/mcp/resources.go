package mcp

import (
	"context"

	"github.com/goccy/go-json"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

func registerResources(srv *server.MCPServer, svc *Service) {
	srv.AddResource(mcp.NewResource(
		"rpt://ideas",
		"Ideas",
		mcp.WithResourceDescription("Every idea in the idea bank."),
		mcp.WithMIMEType("application/json"),
	), ideasResource(svc))

	srv.AddResource(mcp.NewResource(
		"rpt://projects",
		"Projects",
		mcp.WithResourceDescription("Every project with its stage, priority and next action."),
		mcp.WithMIMEType("application/json"),
	), projectsResource(svc))

	srv.AddResource(mcp.NewResource(
		"rpt://deadlines",
		"Deadlines",
		mcp.WithResourceDescription("Deadlines by date, each with a countdown."),
		mcp.WithMIMEType("application/json"),
	), deadlinesResource(svc))

	srv.AddResource(mcp.NewResource(
		"rpt://checkin",
		"Check-in",
		mcp.WithResourceDescription("Today's check-in summary and whether it is due."),
		mcp.WithMIMEType("application/json"),
	), checkinResource(svc))
}

func ideasResource(svc *Service) server.ResourceHandlerFunc {
	return func(_ context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		ideas := svc.Tracker.Ideas()
		return encodeResourceJSON(request.Params.URI, map[string]any{"ideas": ideas, "count": len(ideas)})
	}
}

func projectsResource(svc *Service) server.ResourceHandlerFunc {
	return func(_ context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		projects := svc.Tracker.Projects()
		return encodeResourceJSON(request.Params.URI, map[string]any{"projects": projects, "count": len(projects)})
	}
}

func deadlinesResource(svc *Service) server.ResourceHandlerFunc {
	return func(_ context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		deadlines := svc.Deadlines()
		return encodeResourceJSON(request.Params.URI, map[string]any{"deadlines": deadlines, "count": len(deadlines)})
	}
}

func checkinResource(svc *Service) server.ResourceHandlerFunc {
	return func(_ context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		return encodeResourceJSON(request.Params.URI, svc.CheckIn())
	}
}

func encodeResourceJSON(uri string, payload any) ([]mcp.ResourceContents, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      uri,
			MIMEType: "application/json",
			Text:     string(data),
		},
	}, nil
}
