package parser

import (
	"fmt"
	"regexp"
	"strings"

	"token-swap/pkg/types"
)

// Pattern: [swap] <amount> <source_token> to <dest_token>
// Token symbols keep their case; catalogs carry mixed-case symbols like bNEO.
var swapPattern = regexp.MustCompile(`(?i)^(?:swap\s+)?(\d+\.?\d*|\.\d+)\s+(\S+)\s+to\s+(\S+)$`)

// ParseSwapCommand parses a natural language swap command
// Examples:
//   - "swap 1 ETH to USDC"
//   - "1.5 bNEO to USD"
//   - ".25 ATOM TO OSMO"
func ParseSwapCommand(command string) (*types.SwapRequest, error) {
	matches := swapPattern.FindStringSubmatch(strings.TrimSpace(command))
	if matches == nil {
		return nil, fmt.Errorf("invalid swap command format. Expected: 'swap <amount> <token> to <token>' (e.g., 'swap 1 ETH to USDC')")
	}

	return &types.SwapRequest{
		Amount:      matches[1],
		SourceToken: matches[2],
		DestToken:   matches[3],
	}, nil
}

// ValidateSwapRequest validates that a swap request has all required fields
func ValidateSwapRequest(req *types.SwapRequest) error {
	if req.Amount == "" {
		return fmt.Errorf("amount is required")
	}
	if req.SourceToken == "" {
		return fmt.Errorf("source token is required")
	}
	if req.DestToken == "" {
		return fmt.Errorf("destination token is required")
	}
	return nil
}

// Form actions understood by the interactive prompt.
const (
	ActionAmount = "amount"
	ActionFrom   = "from"
	ActionTo     = "to"
	ActionFlip   = "flip"
	ActionSearch = "search"
	ActionPick   = "pick"
	ActionQuote  = "quote"
	ActionSubmit = "submit"
	ActionReload = "reload"
	ActionHelp   = "help"
	ActionQuit   = "quit"
)

// FormCommand is one line typed at the interactive prompt.
type FormCommand struct {
	Action string
	Args   []string
}

// Arg returns the i-th argument or ""
func (c FormCommand) Arg(i int) string {
	if i < 0 || i >= len(c.Args) {
		return ""
	}
	return c.Args[i]
}

var formArity = map[string][2]int{
	ActionAmount: {0, 1},
	ActionFrom:   {1, 1},
	ActionTo:     {1, 1},
	ActionFlip:   {0, 0},
	ActionSearch: {0, 1},
	ActionPick:   {2, 2},
	ActionQuote:  {0, 0},
	ActionSubmit: {0, 0},
	ActionReload: {0, 0},
	ActionHelp:   {0, 0},
	ActionQuit:   {0, 0},
}

var formAliases = map[string]string{
	"a":       ActionAmount,
	"swap":    ActionFlip,
	"s":       ActionSearch,
	"find":    ActionSearch,
	"q":       ActionQuote,
	"go":      ActionSubmit,
	"r":       ActionReload,
	"refresh": ActionReload,
	"?":       ActionHelp,
	"h":       ActionHelp,
	"exit":    ActionQuit,
}

// ParseFormCommand parses a prompt line such as "amount 2.5", "to USDC"
// or "pick from bNEO". The action is case-insensitive, arguments are not.
func ParseFormCommand(line string) (FormCommand, error) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return FormCommand{}, fmt.Errorf("empty command")
	}

	action := strings.ToLower(fields[0])
	if alias, ok := formAliases[action]; ok {
		action = alias
	}

	arity, ok := formArity[action]
	if !ok {
		return FormCommand{}, fmt.Errorf("unknown command '%s' (type 'help')", fields[0])
	}

	args := fields[1:]
	if len(args) < arity[0] || len(args) > arity[1] {
		return FormCommand{}, fmt.Errorf("'%s' expects %s", action, arityText(arity))
	}

	return FormCommand{Action: action, Args: args}, nil
}

func arityText(a [2]int) string {
	switch {
	case a[0] == a[1] && a[0] == 0:
		return "no arguments"
	case a[0] == a[1] && a[0] == 1:
		return "1 argument"
	case a[0] == a[1]:
		return fmt.Sprintf("%d arguments", a[0])
	default:
		return fmt.Sprintf("%d to %d arguments", a[0], a[1])
	}
}
