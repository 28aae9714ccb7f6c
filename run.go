package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
)

// ParseAndRun parses the command hierarchy and runs the command. A convenience function that
// combines [Parse] and [Run] into a single call. See [Parse] and [Run] for more details.
func ParseAndRun(
	ctx context.Context,
	root *Command,
	args []string,
	options *RunOptions,
) error {
	inv, err := Parse(root, args)
	if err != nil {
		return err
	}
	return Run(ctx, inv, options)
}

// RunOptions specifies options for running a command.
type RunOptions struct {
	// Stdin, Stdout, and Stderr are the standard input, output, and error streams for the command.
	// If any of these are nil, the command will use the default streams ([os.Stdin], [os.Stdout],
	// and [os.Stderr], respectively).
	Stdin          io.Reader
	Stdout, Stderr io.Writer
}

// Run dispatches a parsed invocation. If the matched command has a handler bound, the handler is
// invoked and its error returned unmodified. If the command only groups subcommands, or help was
// requested, usage is written to stdout and Run returns nil without invoking any handler.
//
// The options parameter may be nil, in which case default values are used. See [RunOptions] for
// more details.
func Run(ctx context.Context, inv *Invocation, options *RunOptions) error {
	if inv == nil || len(inv.commands) == 0 {
		return errors.New("command has not been parsed")
	}
	options = checkAndSetRunOptions(options)
	updateInvocation(inv, options)

	cmd := inv.Command()
	if inv.help || cmd.binding == bindingHelp {
		_, err := fmt.Fprintln(inv.Stdout, usage(cmd))
		return err
	}
	if cmd.binding != bindingExec {
		return &NoExecError{Command: cmd}
	}

	err := cmd.Exec(ctx, inv)
	if err != nil && errors.Is(err, ErrShowHelp) {
		fmt.Fprintln(inv.Stderr, usage(cmd))
	}
	return err
}

func usage(c *Command) string {
	if c.UsageFunc != nil {
		return c.UsageFunc(c)
	}
	return DefaultUsage(c)
}

func updateInvocation(inv *Invocation, opt *RunOptions) {
	if inv.Stdin == nil {
		inv.Stdin = opt.Stdin
	}
	if inv.Stdout == nil {
		inv.Stdout = opt.Stdout
	}
	if inv.Stderr == nil {
		inv.Stderr = opt.Stderr
	}
}

func checkAndSetRunOptions(opt *RunOptions) *RunOptions {
	if opt == nil {
		opt = &RunOptions{}
	}
	if opt.Stdin == nil {
		opt.Stdin = os.Stdin
	}
	if opt.Stdout == nil {
		opt.Stdout = os.Stdout
	}
	if opt.Stderr == nil {
		opt.Stderr = os.Stderr
	}
	return opt
}
