package main

import (
	"flag"
	"fmt"
)

type configCmd struct {
	showPath bool
	*root
	fs *flag.FlagSet
}

func (c *configCmd) Synopsis() string {
	return "[path]"
}

func (c *configCmd) FlagSet() *flag.FlagSet {
	return c.fs
}

func parseConfigCmd(args []string, r *root) (*configCmd, error) {
	fs := flag.NewFlagSet("config", flag.ExitOnError)
	c := &configCmd{root: r.subcommand("config"), fs: fs}
	fs.Usage = usageFunc(c)
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	switch fs.NArg() {
	case 0:
	case 1:
		if fs.Arg(0) != "path" {
			return nil, &UsageError{of: c}
		}
		c.showPath = true
	default:
		return nil, &UsageError{of: c}
	}
	return c, nil
}

func (c *configCmd) Run() error {
	if c.showPath {
		path := c.loader.GetConfigPath()
		if path == "" {
			fmt.Println("no config file found, using defaults")
			return nil
		}
		fmt.Println(path)
		return nil
	}
	fmt.Print(c.config.String())
	return nil
}
