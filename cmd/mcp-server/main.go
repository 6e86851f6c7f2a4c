package main

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/trepgo/opentrep/config"
	"github.com/trepgo/opentrep/evaluator"
	"github.com/trepgo/opentrep/filter"
	"github.com/trepgo/opentrep/index"
	"github.com/trepgo/opentrep/location"
	"github.com/trepgo/opentrep/matcher"
	"github.com/trepgo/opentrep/orchestrator"
	"github.com/trepgo/opentrep/reverselookup"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}

	idx, err := index.OpenFileIndex(cfg.IndexPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening index: %v\n", err)
		os.Exit(1)
	}

	o := orchestrator.New(evaluator.New(matcher.New(filter.New(), idx), evaluator.WithUnmatchedCellPenalty(cfg.MatchingConfig.UnmatchedCellPenalty)))

	var store reverselookup.Store
	if cfg.SQLConfig.Type != "" && cfg.SQLConfig.Type != "nodb" {
		store, err = reverselookup.Open(context.Background(), cfg.SQLConfig.Type, cfg.SQLConfig.ConnString)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Warning: reverse lookup store unavailable: %v\n", err)
		}
	}

	s := server.NewMCPServer(
		"opentrep-mcp",
		"1.0.0",
		server.WithLogging(),
	)

	searchTool := mcp.NewTool("search_location",
		mcp.WithDescription("Fuzzy-match free text against the travel point-of-reference catalog"),
		mcp.WithString("query", mcp.Required(), mcp.Description("Free-text place name, e.g. 'san francisco' or 'nce fr'")),
		mcp.WithNumber("max_results", mcp.Description("Maximum number of locations to return (default: all matched)")),
	)
	s.AddTool(searchTool, handleSearch(o))

	s.AddTool(
		mcp.NewTool("lookup_by_iata",
			mcp.WithDescription("Look up every language row for a point of reference by its exact IATA code"),
			mcp.WithString("code", mcp.Required(), mcp.Description("3-letter IATA code, e.g. 'SFO'")),
		),
		handleLookup("IATA", func(ctx context.Context, code string) (location.List, error) {
			return store.ByIATA(ctx, code)
		}, store),
	)

	s.AddTool(
		mcp.NewTool("lookup_by_icao",
			mcp.WithDescription("Look up a point of reference by its exact ICAO code"),
			mcp.WithString("code", mcp.Required(), mcp.Description("4-character ICAO code, e.g. 'KSFO'")),
		),
		handleLookup("ICAO", func(ctx context.Context, code string) (location.List, error) {
			return store.ByICAO(ctx, code)
		}, store),
	)

	s.AddTool(
		mcp.NewTool("lookup_by_faa",
			mcp.WithDescription("Look up a point of reference by its exact FAA code"),
			mcp.WithString("code", mcp.Required(), mcp.Description("1-4 character FAA code")),
		),
		handleLookup("FAA", func(ctx context.Context, code string) (location.List, error) {
			return store.ByFAA(ctx, code)
		}, store),
	)

	s.AddTool(
		mcp.NewTool("lookup_by_unlocode",
			mcp.WithDescription("Look up a point of reference by its UN/LOCODE"),
			mcp.WithString("code", mcp.Required(), mcp.Description("UN/LOCODE, e.g. 'USSFO'")),
		),
		handleLookup("UN/LOCODE", func(ctx context.Context, code string) (location.List, error) {
			return store.ByUNLOCODE(ctx, code)
		}, store),
	)

	s.AddTool(
		mcp.NewTool("lookup_by_uic_code",
			mcp.WithDescription("Look up a point of reference by its UIC code"),
			mcp.WithString("code", mcp.Required(), mcp.Description("Numeric UIC code")),
		),
		handleUICLookup(store),
	)

	s.AddTool(
		mcp.NewTool("lookup_by_geoname_id",
			mcp.WithDescription("Look up a point of reference by its Geonames identifier"),
			mcp.WithNumber("geoname_id", mcp.Required(), mcp.Description("Geonames numeric identifier")),
		),
		handleGeonameLookup(store),
	)

	if err := server.ServeStdio(s); err != nil {
		fmt.Fprintf(os.Stderr, "Server error: %v\n", err)
		os.Exit(1)
	}
}

func handleSearch(o *orchestrator.Orchestrator) func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		argsMap, ok := request.Params.Arguments.(map[string]any)
		if !ok {
			return mcp.NewToolResultError("Invalid arguments format"), nil
		}

		query, _ := argsMap["query"].(string)
		if strings.TrimSpace(query) == "" {
			return mcp.NewToolResultError("query is required"), nil
		}

		maxResults := 0
		if v, ok := argsMap["max_results"].(float64); ok {
			maxResults = int(v)
		}

		result, err := o.Search(ctx, query, orchestrator.Options{MaxResults: maxResults})
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("Error searching: %v", err)), nil
		}

		return mcp.NewToolResultText(formatLocations(result.Locations, result.UnmatchedWords)), nil
	}
}

func handleLookup(label string, lookup func(context.Context, string) (location.List, error), store reverselookup.Store) func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		if store == nil {
			return mcp.NewToolResultError("reverse lookup store not configured"), nil
		}
		argsMap, ok := request.Params.Arguments.(map[string]any)
		if !ok {
			return mcp.NewToolResultError("Invalid arguments format"), nil
		}
		code, _ := argsMap["code"].(string)
		if strings.TrimSpace(code) == "" {
			return mcp.NewToolResultError("code is required"), nil
		}

		list, err := lookup(ctx, code)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("Error looking up %s %q: %v", label, code, err)), nil
		}
		return mcp.NewToolResultText(formatLocations(list, nil)), nil
	}
}

func handleUICLookup(store reverselookup.Store) func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		if store == nil {
			return mcp.NewToolResultError("reverse lookup store not configured"), nil
		}
		argsMap, ok := request.Params.Arguments.(map[string]any)
		if !ok {
			return mcp.NewToolResultError("Invalid arguments format"), nil
		}
		codeStr, _ := argsMap["code"].(string)
		code, err := strconv.ParseInt(strings.TrimSpace(codeStr), 10, 64)
		if err != nil {
			return mcp.NewToolResultError("code must be a numeric UIC code"), nil
		}

		list, err := store.ByUICCode(ctx, code)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("Error looking up UIC code %d: %v", code, err)), nil
		}
		return mcp.NewToolResultText(formatLocations(list, nil)), nil
	}
}

func handleGeonameLookup(store reverselookup.Store) func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		if store == nil {
			return mcp.NewToolResultError("reverse lookup store not configured"), nil
		}
		argsMap, ok := request.Params.Arguments.(map[string]any)
		if !ok {
			return mcp.NewToolResultError("Invalid arguments format"), nil
		}
		idVal, ok := argsMap["geoname_id"].(float64)
		if !ok {
			return mcp.NewToolResultError("geoname_id is required"), nil
		}

		list, err := store.ByGeonameID(ctx, int64(idVal))
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("Error looking up geoname id %d: %v", int64(idVal), err)), nil
		}
		return mcp.NewToolResultText(formatLocations(list, nil)), nil
	}
}

func formatLocations(locations location.List, unmatchedWords []string) string {
	if len(locations) == 0 {
		return "no matches"
	}

	var b strings.Builder
	for i, loc := range locations {
		if i > 0 {
			b.WriteString("\n")
		}
		fmt.Fprintf(&b, "%s\t%s\t%s\t%.1f%%", loc.Key.IATACode, loc.CommonName, loc.CountryCode, loc.MatchingPercentage)
	}
	if len(unmatchedWords) > 0 {
		fmt.Fprintf(&b, "\nunmatched: %s", strings.Join(unmatchedWords, " "))
	}
	return b.String()
}
