package common

import (
	"fmt"
	"strings"
)

// DefaultAccount is used when neither the request nor the server names an
// account.
const DefaultAccount = "default"

// GetAccountFromArgs returns the "account" argument, else fallback, else
// "default".
func GetAccountFromArgs(args map[string]interface{}, fallback string) string {
	if accountVal, ok := args["account"].(string); ok && accountVal != "" {
		return accountVal
	}
	if fallback != "" {
		return fallback
	}
	return DefaultAccount
}

// StringArg returns a trimmed string argument or def when absent.
func StringArg(args map[string]interface{}, name, def string) string {
	if v, ok := args[name].(string); ok && strings.TrimSpace(v) != "" {
		return strings.TrimSpace(v)
	}
	return def
}

// NumberArg returns a numeric argument or def when absent. JSON numbers
// arrive as float64; numeric strings are accepted as well.
func NumberArg(args map[string]interface{}, name string, def float64) (float64, error) {
	raw, ok := args[name]
	if !ok || raw == nil {
		return def, nil
	}
	switch v := raw.(type) {
	case float64:
		return v, nil
	case int:
		return float64(v), nil
	case string:
		if strings.TrimSpace(v) == "" {
			return def, nil
		}
		var f float64
		if _, err := fmt.Sscanf(strings.TrimSpace(v), "%g", &f); err != nil {
			return 0, fmt.Errorf("%s must be a number, got %q", name, v)
		}
		return f, nil
	}
	return 0, fmt.Errorf("%s must be a number", name)
}
