package main

import (
	"flag"
	"fmt"
	"os"
	"strings"
)

// HelpData is what a command exposes so usage text can be rendered for it.
type HelpData interface {
	Program() string
	Synopsis() string
	FlagSet() *flag.FlagSet
}

type UsageError struct {
	of HelpData
}

func (e *UsageError) Error() string {
	return renderHelp(e.of)
}

func renderHelp(h HelpData) string {
	var sb strings.Builder
	header := strings.TrimSpace(h.Program() + " " + h.Synopsis())
	fmt.Fprintf(&sb, "usage: %s\n", header)
	if fs := h.FlagSet(); fs != nil {
		var flags []*flag.Flag
		fs.VisitAll(func(f *flag.Flag) { flags = append(flags, f) })
		if len(flags) > 0 {
			sb.WriteString("\nflags:\n")
			for _, f := range flags {
				fmt.Fprintf(&sb, "  -%s", f.Name)
				if f.DefValue != "" && f.DefValue != "false" {
					fmt.Fprintf(&sb, " (default %s)", f.DefValue)
				}
				fmt.Fprintf(&sb, "\n        %s\n", f.Usage)
			}
		}
	}
	return strings.TrimRight(sb.String(), "\n")
}

func usageFunc(h HelpData) func() {
	return func() {
		fmt.Fprintln(os.Stderr, renderHelp(h))
	}
}
