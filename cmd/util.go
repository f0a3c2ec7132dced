package cmd

import (
	"fmt"
	"strings"

	"github.com/fatih/color"

	"github.com/gatehouse-sec/gatehouse/internal/core"
)

var (
	bold  = color.New(color.Bold).SprintFunc()
	faint = color.New(color.Faint).SprintFunc()
	green = color.New(color.FgGreen).SprintFunc()
	red   = color.New(color.FgRed).SprintFunc()
)

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return s[:maxLen]
	}
	return s[:maxLen-3] + "..."
}

// parseAttrs turns repeated "key=value" flags into an attribute map.
func parseAttrs(pairs []string) (map[string]any, error) {
	if len(pairs) == 0 {
		return nil, nil
	}
	attrs := make(map[string]any, len(pairs))
	for _, pair := range pairs {
		key, value, ok := strings.Cut(pair, "=")
		if !ok || key == "" {
			return nil, fmt.Errorf("invalid attribute '%s', expected key=value", pair)
		}
		attrs[key] = value
	}
	return attrs, nil
}

func formatEffect(effect core.Effect) string {
	if effect == core.Allow {
		return bold(green("allowed"))
	}
	return bold(red("denied"))
}
