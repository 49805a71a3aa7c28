package main

import (
	"flag"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/example/redactshot/internal/capture"
)

type displaysCmd struct {
	*root
	fs *flag.FlagSet
}

func (d *displaysCmd) Synopsis() string {
	return ""
}

func (d *displaysCmd) FlagSet() *flag.FlagSet {
	return d.fs
}

func parseDisplaysCmd(args []string, r *root) (*displaysCmd, error) {
	fs := flag.NewFlagSet("displays", flag.ExitOnError)
	d := &displaysCmd{root: r.subcommand("displays"), fs: fs}
	fs.Usage = usageFunc(d)
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if fs.NArg() > 0 {
		return nil, &UsageError{of: d}
	}
	return d, nil
}

func (d *displaysCmd) Run() error {
	monitors, err := capture.Monitors()
	if err != nil {
		return fmt.Errorf("list displays: %w", err)
	}
	if len(monitors) == 0 {
		fmt.Println("no displays found")
		return nil
	}
	w := tabwriter.NewWriter(os.Stdout, 2, 4, 2, ' ', 0)
	fmt.Fprintln(w, "INDEX\tNAME\tGEOMETRY\tPRIMARY")
	for _, m := range monitors {
		primary := ""
		if m.Primary {
			primary = "yes"
		}
		fmt.Fprintf(w, "#%d\t%s\t%dx%d+%d+%d\t%s\n",
			m.Index, m.Name, m.Rect.Dx(), m.Rect.Dy(), m.Rect.Min.X, m.Rect.Min.Y, primary)
	}
	return w.Flush()
}
