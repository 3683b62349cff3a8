package cmdline

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"text/tabwriter"

	arg "github.com/alexflint/go-arg"
	"github.com/hardyml/hardy/hardy-golib/errors"
)

// Command is a subcommand of a program dispatched by MustDispatch. Args is filled from the
// command line by go-arg before Handle runs.
type Command struct {
	Name     string
	Synopsis string
	Args     Handler
}

// Handler runs a parsed subcommand.
type Handler interface {
	Handle() error
}

// Validator may be implemented by Args to reject flag combinations go-arg cannot express.
type Validator interface {
	Validate() error
}

// ErrUsage is returned by Dispatch when no or an unknown command was given; usage has
// already been written.
var ErrUsage = errors.New("invalid usage")

func program() string {
	if len(os.Args) == 0 {
		return "hardy"
	}
	return filepath.Base(os.Args[0])
}

func usage(w io.Writer, cmds []Command) {
	tw := tabwriter.NewWriter(w, 0, 4, 3, ' ', 0)
	fmt.Fprintf(tw, "usage: %s <command> [<args>]\n\ncommands:\n", program())
	for _, c := range cmds {
		fmt.Fprintf(tw, "  %s\t%s\n", c.Name, c.Synopsis)
	}
	fmt.Fprintf(tw, "  help [<command>]\tshow usage for the program or one command\n")
	tw.Flush()
}

func find(cmds []Command, name string) (Command, bool) {
	for _, c := range cmds {
		if c.Name == name {
			return c, true
		}
	}
	return Command{}, false
}

// Dispatch parses args (without the program name) into the matching command and runs its
// handler. Help output goes to w.
func Dispatch(w io.Writer, args []string, cmds ...Command) error {
	if len(args) == 0 {
		usage(w, cmds)
		fmt.Fprintln(w, "\nerror: no command provided")
		return ErrUsage
	}

	name, rest := args[0], args[1:]
	helpOnly := name == "help"
	if helpOnly {
		if len(rest) == 0 {
			usage(w, cmds)
			return nil
		}
		name, rest = rest[0], nil
	}

	c, ok := find(cmds, name)
	if !ok {
		usage(w, cmds)
		fmt.Fprintf(w, "\nerror: unknown command %s\n", name)
		return ErrUsage
	}

	p, err := arg.NewParser(arg.Config{Program: program() + " " + name}, c.Args)
	if err != nil {
		return err
	}
	if helpOnly {
		p.WriteHelp(w)
		return nil
	}

	switch err := p.Parse(rest); {
	case err == arg.ErrHelp:
		p.WriteHelp(w)
		return nil
	case err != nil:
		p.WriteUsage(w)
		return errors.Wrapf(err, "%s", name)
	}

	if v, ok := c.Args.(Validator); ok {
		if err := v.Validate(); err != nil {
			p.WriteUsage(w)
			return errors.Wrapf(err, "%s", name)
		}
	}
	return c.Args.Handle()
}

// MustDispatch dispatches one of the commands from os.Args and exits the process on failure.
func MustDispatch(cmds ...Command) {
	if err := Dispatch(os.Stdout, os.Args[1:], cmds...); err != nil {
		if err != ErrUsage {
			fmt.Fprintln(os.Stderr, "error:", err)
		}
		os.Exit(2)
	}
}
