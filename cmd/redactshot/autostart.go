package main

import (
	"flag"
	"fmt"

	"github.com/example/redactshot/internal/autostart"
)

type autostartCmd struct {
	verb string
	*root
	fs *flag.FlagSet
}

func (a *autostartCmd) Synopsis() string {
	return "<on|off|status>"
}

func (a *autostartCmd) FlagSet() *flag.FlagSet {
	return a.fs
}

func parseAutostartCmd(args []string, r *root) (*autostartCmd, error) {
	fs := flag.NewFlagSet("autostart", flag.ExitOnError)
	a := &autostartCmd{root: r.subcommand("autostart"), fs: fs}
	fs.Usage = usageFunc(a)
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if fs.NArg() != 1 {
		return nil, &UsageError{of: a}
	}
	a.verb = fs.Arg(0)
	switch a.verb {
	case "on", "off", "status":
	default:
		return nil, &UsageError{of: a}
	}
	return a, nil
}

func (a *autostartCmd) Run() error {
	switch a.verb {
	case "on":
		if err := autostart.Enable(); err != nil {
			return fmt.Errorf("enable autostart: %w", err)
		}
		fmt.Println("autostart enabled")
	case "off":
		if err := autostart.Disable(); err != nil {
			return fmt.Errorf("disable autostart: %w", err)
		}
		fmt.Println("autostart disabled")
	case "status":
		if autostart.Enabled() {
			fmt.Println("autostart is enabled")
		} else {
			fmt.Println("autostart is disabled")
		}
	}
	return nil
}
