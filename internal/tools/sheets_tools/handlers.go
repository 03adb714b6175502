package sheets_tools

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"google.golang.org/api/sheets/v4"

	"github.com/teemow/workspace-mcp/internal/clients"
	"github.com/teemow/workspace-mcp/internal/tools/common"
)

func handleReadRange(ctx context.Context, request mcp.CallToolRequest, h *clients.Handle) (*mcp.CallToolResult, error) {
	args := request.GetArguments()

	spreadsheetID, ok := args["spreadsheetId"].(string)
	if !ok || spreadsheetID == "" {
		return common.ErrorResult("spreadsheetId parameter is required"), nil
	}
	readRange, ok := args["range"].(string)
	if !ok || readRange == "" {
		return common.ErrorResult("range parameter is required"), nil
	}

	resp, err := h.Sheets().Spreadsheets.Values.Get(spreadsheetID, readRange).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("failed to read range %s: %w", readRange, err)
	}

	if len(resp.Values) == 0 {
		return common.TextResult("Range %s is empty.", readRange), nil
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "Values in %s (%d row(s)):\n\n", resp.Range, len(resp.Values))
	sb.WriteString(formatRows(resp.Values))

	return common.TextResult("%s", sb.String()), nil
}

func handleModifyValues(ctx context.Context, request mcp.CallToolRequest, h *clients.Handle) (*mcp.CallToolResult, error) {
	args := request.GetArguments()

	spreadsheetID, ok := args["spreadsheetId"].(string)
	if !ok || spreadsheetID == "" {
		return common.ErrorResult("spreadsheetId parameter is required"), nil
	}
	writeRange, ok := args["range"].(string)
	if !ok || writeRange == "" {
		return common.ErrorResult("range parameter is required"), nil
	}

	values, err := parseValues(args["values"])
	if err != nil {
		return common.ErrorResult("%v", err), nil
	}

	resp, err := h.Sheets().Spreadsheets.Values.Update(spreadsheetID, writeRange, &sheets.ValueRange{
		Values: values,
	}).ValueInputOption("USER_ENTERED").Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("failed to write range %s: %w", writeRange, err)
	}

	return common.TextResult("Updated %d cell(s) in %s.", resp.UpdatedCells, resp.UpdatedRange), nil
}

func handleCreateSpreadsheet(ctx context.Context, request mcp.CallToolRequest, h *clients.Handle) (*mcp.CallToolResult, error) {
	args := request.GetArguments()

	title, ok := args["title"].(string)
	if !ok || title == "" {
		return common.ErrorResult("title parameter is required"), nil
	}

	created, err := h.Sheets().Spreadsheets.Create(&sheets.Spreadsheet{
		Properties: &sheets.SpreadsheetProperties{Title: title},
	}).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("failed to create spreadsheet: %w", err)
	}

	return common.TextResult("Spreadsheet created successfully.\nTitle: %s\nID: %s\nLink: %s",
		title, created.SpreadsheetId, created.SpreadsheetUrl), nil
}

// parseValues accepts the rows either as a JSON string or as an
// already-decoded array of arrays.
func parseValues(raw interface{}) ([][]interface{}, error) {
	switch v := raw.(type) {
	case string:
		if v == "" {
			return nil, fmt.Errorf("values parameter is required")
		}
		var rows [][]interface{}
		if err := json.Unmarshal([]byte(v), &rows); err != nil {
			return nil, fmt.Errorf("values must be a JSON array of arrays: %w", err)
		}
		return rows, nil
	case []interface{}:
		rows := make([][]interface{}, 0, len(v))
		for i, rawRow := range v {
			row, ok := rawRow.([]interface{})
			if !ok {
				return nil, fmt.Errorf("values row %d is not an array", i)
			}
			rows = append(rows, row)
		}
		return rows, nil
	case nil:
		return nil, fmt.Errorf("values parameter is required")
	default:
		return nil, fmt.Errorf("values must be a JSON array of arrays")
	}
}

func formatRows(values [][]interface{}) string {
	var sb strings.Builder
	for _, row := range values {
		cells := make([]string, len(row))
		for i, cell := range row {
			cells[i] = fmt.Sprintf("%v", cell)
		}
		sb.WriteString(strings.Join(cells, "\t"))
		sb.WriteString("\n")
	}
	return sb.String()
}
