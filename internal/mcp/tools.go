package mcp

import (
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/hpungsan/gauge/internal/convert"
)

func calculateToolDef(domain convert.Domain, example string) mcp.Tool {
	return mcp.NewTool(string(domain)+"_calculate",
		mcp.WithDescription(fmt.Sprintf(
			"Evaluate a %s expression mixing units, fractions and compound notation (e.g. %s). "+
				"Returns the value in every display unit and records it in the session history.",
			domain, example)),
		mcp.WithString("expression",
			mcp.Required(),
			mcp.Description("Expression to evaluate. Case-insensitive; + - * / and parentheses allowed."),
		),
		mcp.WithBoolean("explain",
			mcp.Description("Include the expression after each rewrite pass."),
		),
	)
}

func historyToolDef(domain convert.Domain) mcp.Tool {
	return mcp.NewTool(string(domain)+"_history",
		mcp.WithDescription(fmt.Sprintf(
			"List the most recent %s calculations of this session, newest first.", domain)),
		mcp.WithBoolean("clear",
			mcp.Description("Clear the history instead of listing it."),
		),
	)
}

var (
	lengthCalculateToolDef = calculateToolDef(convert.DomainLength, `4' 3 7/8" + 2.5 CM`)
	lengthHistoryToolDef   = historyToolDef(convert.DomainLength)
	weightCalculateToolDef = calculateToolDef(convert.DomainWeight, "5 LB 8 OZ - 1/2 KG")
	weightHistoryToolDef   = historyToolDef(convert.DomainWeight)
)
