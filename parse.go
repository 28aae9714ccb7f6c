package cli

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	"github.com/mfridman/xflag"
)

// Parse walks args against the finalized command tree and returns the resolved [Invocation]. It
// returns an error if the tree has not been finalized or if any argument cannot be matched.
//
// The walk is greedy: an argument naming a subcommand of the current command advances into it, an
// argument naming a flag declared on the current command or any command above it is consumed
// together with its value, and anything else is an [UnrecognizedArgumentError]. The walk ends at
// the first "--"; the remaining arguments are returned in [Invocation.Args]. A help flag (-h,
// -help, --help) stops the walk and marks the invocation so [Run] prints help for the command
// reached so far.
func Parse(root *Command, args []string) (*Invocation, error) {
	if root == nil {
		return nil, errors.New("failed to parse: root command is nil")
	}
	if !root.finalized {
		return nil, fmt.Errorf("failed to parse: %w", ErrNotFinalized)
	}

	current := root
	commands := []*Command{root}
	var (
		flagArgs []string
		rest     []string
		help     bool
	)

walk:
	for i := 0; i < len(args); i++ {
		arg := args[i]
		switch {
		case arg == "--":
			rest = args[i+1:]
			break walk
		case isHelpFlag(arg):
			help = true
			break walk
		case len(arg) > 1 && strings.HasPrefix(arg, "-"):
			name, hasValue := splitFlag(arg)
			f := current.lookupFlag(name)
			if f == nil {
				return nil, newUnrecognizedArgumentError(current, arg)
			}
			flagArgs = append(flagArgs, arg)
			// Non-boolean flags take the next argument as their value unless given as -name=value.
			if !hasValue && !isBoolFlag(f) && i+1 < len(args) {
				i++
				flagArgs = append(flagArgs, args[i])
			}
		default:
			sub := current.findSubCommand(arg)
			if sub == nil {
				return nil, newUnrecognizedArgumentError(current, arg)
			}
			current = sub
			commands = append(commands, sub)
		}
	}

	inv := &Invocation{
		Args:     rest,
		commands: commands,
		help:     help,
	}
	if help {
		return inv, nil
	}

	// Build a combined flag set from every command on the path. Built-in values are reset to their
	// defaults first, so a tree parsed more than once does not leak values between invocations.
	combined := flag.NewFlagSet(current.fullName(), flag.ContinueOnError)
	combined.SetOutput(io.Discard)
	var resetErr error
	for _, cmd := range commands {
		if cmd.Flags == nil {
			continue
		}
		cmd.Flags.VisitAll(func(f *flag.Flag) {
			if err := resetFlag(f); err != nil && resetErr == nil {
				resetErr = fmt.Errorf("command %q: failed to reset flag -%s: %w", cmd.fullName(), f.Name, err)
			}
			combined.Var(f.Value, f.Name, f.Usage)
		})
	}
	if resetErr != nil {
		return nil, resetErr
	}
	if err := xflag.ParseToEnd(combined, flagArgs); err != nil {
		return nil, &flagValueError{path: current.fullName(), err: err}
	}
	inv.flags = combined

	// Required flags only matter when a handler is about to run.
	if current.binding == bindingExec {
		set := make(map[string]bool)
		combined.Visit(func(f *flag.Flag) {
			set[f.Name] = true
		})
		var missing []string
		for _, cmd := range commands {
			for _, m := range cmd.FlagsMetadata {
				if m.Required && !set[m.Name] {
					missing = append(missing, m.Name)
				}
			}
		}
		if len(missing) > 0 {
			return nil, &MissingFlagsError{Path: current.path(), Names: missing}
		}
	}
	return inv, nil
}

// resetFlag restores a flag created by the flag package's typed constructors to its default.
// Custom values, including those of [flag.Func], are left untouched.
func resetFlag(f *flag.Flag) error {
	g, ok := f.Value.(flag.Getter)
	if !ok || f.Value.String() == f.DefValue {
		return nil
	}
	switch g.Get().(type) {
	case bool, string, int, int64, uint, uint64, float64, time.Duration:
		return f.Value.Set(f.DefValue)
	}
	return nil
}

func isHelpFlag(arg string) bool {
	switch arg {
	case "-h", "--h", "-help", "--help":
		return true
	}
	return false
}

// splitFlag returns the flag name of a -name, --name, -name=value or --name=value argument and
// whether the value is inline.
func splitFlag(arg string) (string, bool) {
	name := strings.TrimPrefix(arg, "-")
	name = strings.TrimPrefix(name, "-")
	if i := strings.Index(name, "="); i >= 0 {
		return name[:i], true
	}
	return name, false
}

func isBoolFlag(f *flag.Flag) bool {
	bf, ok := f.Value.(interface{ IsBoolFlag() bool })
	return ok && bf.IsBoolFlag()
}

func newUnrecognizedArgumentError(c *Command, token string) *UnrecognizedArgumentError {
	e := &UnrecognizedArgumentError{Token: token, Path: c.path()}
	for _, sub := range c.SubCommands {
		e.Commands = append(e.Commands, sub.Name)
	}
	for cur := c; cur != nil; cur = cur.parent {
		if cur.Flags == nil {
			continue
		}
		cur.Flags.VisitAll(func(f *flag.Flag) {
			e.Flags = append(e.Flags, "-"+f.Name)
		})
	}
	sort.Strings(e.Flags)
	return e
}
