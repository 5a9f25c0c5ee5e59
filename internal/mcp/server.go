// Package mcp provides the stdio MCP server exposing the expense split tool.
package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"
	"github.com/samber/lo"

	"github.com/go-ports/fairshare/internal/buildinfo"
	"github.com/go-ports/fairshare/internal/money"
	"github.com/go-ports/fairshare/internal/service"
	"github.com/go-ports/fairshare/internal/splitter"
)

const splitDescription = `Split one shared expense between two people in proportion to their incomes.

Each person's share is expense * (own income / combined income). All amounts must be between 0 and 1,000,000 and the combined income must be greater than zero. With round=true (the default) each share is rounded to the nearest whole unit independently, so the two shares may differ from the expense by 1.`

// NewServer creates a new MCP server with the split tool registered.
// It is separate from Serve so that tests can use an in-process client.
func NewServer(svc *service.Service) *mcpserver.MCPServer {
	s := mcpserver.NewMCPServer("fairshare", buildinfo.Version)
	registerTools(s, svc)
	return s
}

// Serve starts the stdio MCP server for the home at home, blocking until
// stdin closes.
func Serve(_ context.Context, home string) error {
	svc, err := service.New(home)
	if err != nil {
		return fmt.Errorf("mcp: init service: %w", err)
	}
	defer svc.Close()

	return mcpserver.ServeStdio(NewServer(svc))
}

func registerTools(s *mcpserver.MCPServer, svc *service.Service) {
	s.AddTool(mcp.NewTool("expense_split",
		mcp.WithDescription(splitDescription),
		mcp.WithNumber("income1",
			mcp.Description("Income of person 1."),
			mcp.Required(),
			mcp.Min(0),
			mcp.Max(splitter.MaxAmount),
		),
		mcp.WithNumber("income2",
			mcp.Description("Income of person 2."),
			mcp.Required(),
			mcp.Min(0),
			mcp.Max(splitter.MaxAmount),
		),
		mcp.WithNumber("expense",
			mcp.Description("The shared expense to split."),
			mcp.Required(),
			mcp.Min(0),
			mcp.Max(splitter.MaxAmount),
		),
		mcp.WithBoolean("round",
			mcp.Description("Round each share to a whole unit (default true)."),
		),
	), func(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		return handleSplit(svc, req)
	})
}

// ---------------------------------------------------------------------------
// Tool handlers
// ---------------------------------------------------------------------------

func handleSplit(svc *service.Service, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	in, err := parseInput(req.GetArguments())
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	res, err := svc.Split(in)
	if err != nil {
		var verr *splitter.ValidationError
		if errors.As(err, &verr) {
			return mcp.NewToolResultError(describe(verr)), nil
		}
		return nil, err
	}

	return jsonResult(map[string]any{
		"person1Share":   res.Person1Share,
		"person2Share":   res.Person2Share,
		"person1Display": money.FormatUSD(res.Person1Share),
		"person2Display": money.FormatUSD(res.Person2Share),
	})
}

// parseInput maps tool arguments onto a splitter.Input. Absent arguments stay
// nil so the splitter reports them as required.
func parseInput(args map[string]any) (splitter.Input, error) {
	var in splitter.Input
	verr := &splitter.ValidationError{}

	number := func(key string) *float64 {
		raw, ok := args[key]
		if !ok || raw == nil {
			return nil
		}
		switch v := raw.(type) {
		case float64:
			return lo.ToPtr(v)
		case int:
			return lo.ToPtr(float64(v))
		case int64:
			return lo.ToPtr(float64(v))
		case json.Number:
			if f, err := v.Float64(); err == nil {
				return lo.ToPtr(f)
			}
		}
		verr.Add(key, "must be a number")
		return nil
	}
	in.Income1 = number("income1")
	in.Income2 = number("income2")
	in.Expense = number("expense")

	if raw, ok := args["round"]; ok && raw != nil {
		round, ok := raw.(bool)
		if !ok {
			verr.Add("round", "must be true or false")
		} else {
			in.Round = lo.ToPtr(round)
		}
	}

	if len(verr.Fields) > 0 {
		return in, errors.New(describe(verr))
	}
	return in, nil
}

// ---------------------------------------------------------------------------
// Helpers
// ---------------------------------------------------------------------------

// describe renders one line per offending field.
func describe(verr *splitter.ValidationError) string {
	lines := lo.Map(verr.Fields, func(f splitter.FieldError, _ int) string {
		return "- " + f.Field + ": " + f.Message
	})
	return "invalid input:\n" + strings.Join(lines, "\n")
}

func jsonResult(v any) (*mcp.CallToolResult, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(string(b)), nil
}
