package main

import (
	"flag"
	"fmt"
	"os"
	"strconv"
	"text/tabwriter"

	"github.com/example/redactshot/internal/history"
)

type historyCmd struct {
	verb string
	id   int64
	*root
	fs *flag.FlagSet
}

func (h *historyCmd) Synopsis() string {
	return "<list|remove <id>|clear>"
}

func (h *historyCmd) FlagSet() *flag.FlagSet {
	return h.fs
}

func parseHistoryCmd(args []string, r *root) (*historyCmd, error) {
	fs := flag.NewFlagSet("history", flag.ExitOnError)
	h := &historyCmd{root: r.subcommand("history"), fs: fs}
	fs.Usage = usageFunc(h)
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	operands := fs.Args()
	if len(operands) == 0 {
		h.verb = "list"
		return h, nil
	}
	h.verb = operands[0]
	switch h.verb {
	case "list", "clear":
		if len(operands) != 1 {
			return nil, &UsageError{of: h}
		}
	case "remove":
		if len(operands) != 2 {
			return nil, &UsageError{of: h}
		}
		id, err := strconv.ParseInt(operands[1], 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid history id %q", operands[1])
		}
		h.id = id
	default:
		return nil, &UsageError{of: h}
	}
	return h, nil
}

func (h *historyCmd) Run() error {
	path, err := historyDBPath()
	if err != nil {
		return err
	}
	store, err := history.Open(path, h.config.MaxHistory)
	if err != nil {
		return fmt.Errorf("open history: %w", err)
	}
	defer store.Close()

	switch h.verb {
	case "list":
		return listHistory(store)
	case "remove":
		if err := store.Remove(h.id); err != nil {
			return fmt.Errorf("remove entry %d: %w", h.id, err)
		}
		fmt.Printf("removed entry %d\n", h.id)
		return nil
	case "clear":
		if err := store.Clear(); err != nil {
			return fmt.Errorf("clear history: %w", err)
		}
		fmt.Println("history cleared")
		return nil
	}
	return nil
}

func listHistory(store *history.Store) error {
	entries, err := store.List()
	if err != nil {
		return fmt.Errorf("list history: %w", err)
	}
	if len(entries) == 0 {
		fmt.Println("no captures recorded")
		return nil
	}
	w := tabwriter.NewWriter(os.Stdout, 2, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tSIZE\tCREATED\tPATH")
	for _, e := range entries {
		fmt.Fprintf(w, "%d\t%dx%d\t%s\t%s\n",
			e.ID, e.Width, e.Height, e.CreatedAt.Format("2006-01-02 15:04:05"), e.Path)
	}
	return w.Flush()
}
