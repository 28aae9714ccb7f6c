package cli

import (
	"errors"
	"flag"
	"fmt"
	"strings"

	"github.com/daokit/cli/pkg/suggest"
)

var (
	// ErrFinalized is returned when the tree is modified or finalized after [Builder.Finalize].
	ErrFinalized = errors.New("command tree already finalized")

	// ErrNotFinalized is returned by [Parse] when the root has not been finalized.
	ErrNotFinalized = errors.New("command tree not finalized")

	// ErrShowHelp may be returned (or wrapped) by a handler to print the command's usage to stderr
	// in addition to the error.
	ErrShowHelp = errors.New("show help")
)

// DuplicateSubcommandError is returned when two commands with the same name are mounted under the
// same parent.
type DuplicateSubcommandError struct {
	// Path is the path of the parent command.
	Path []string
	// Name is the colliding subcommand name.
	Name string
}

func (e *DuplicateSubcommandError) Error() string {
	return fmt.Sprintf("duplicate subcommand %q under %q", e.Name, strings.Join(e.Path, " "))
}

// UnrecognizedArgumentError is returned when an argument matches neither a subcommand nor a flag
// at the command the walk has reached.
type UnrecognizedArgumentError struct {
	// Token is the offending argument, as given.
	Token string
	// Path is the path of the command the walk had reached.
	Path []string
	// Commands and Flags are the valid continuations at that command.
	Commands []string
	Flags    []string
}

func (e *UnrecognizedArgumentError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "command %q: unrecognized argument %q", strings.Join(e.Path, " "), e.Token)
	var valid []string
	valid = append(valid, e.Commands...)
	valid = append(valid, e.Flags...)
	if len(valid) > 0 {
		fmt.Fprintf(&b, " (valid: %s)", strings.Join(valid, ", "))
	}
	if !strings.HasPrefix(e.Token, "-") {
		if suggestions := suggest.FindSimilar(e.Token, e.Commands, 3); len(suggestions) > 0 {
			fmt.Fprintf(&b, ". Did you mean one of these?\n\t%s", strings.Join(suggestions, "\n\t"))
		}
	}
	return b.String()
}

// NoExecError is returned when a command has neither subcommands nor an execution function.
type NoExecError struct {
	Command *Command
}

func (e *NoExecError) Error() string {
	return fmt.Sprintf("command %q has no execution function", e.Command.fullName())
}

// MissingFlagsError is returned when required flags were not set on the command line.
type MissingFlagsError struct {
	Path  []string
	Names []string
}

func (e *MissingFlagsError) Error() string {
	flags := make([]string, 0, len(e.Names))
	for _, n := range e.Names {
		flags = append(flags, "-"+n)
	}
	return fmt.Sprintf("command %q: required flags %q not set", strings.Join(e.Path, " "), strings.Join(flags, ", "))
}

// flagValueError wraps errors reported by the flag package while resolving flag values.
type flagValueError struct {
	path string
	err  error
}

func (e *flagValueError) Error() string { return fmt.Sprintf("command %q: %v", e.path, e.err) }
func (e *flagValueError) Unwrap() error { return e.err }

// Exit codes returned by [ExitCode].
const (
	ExitOK    = 0
	ExitError = 1
	ExitUsage = 2
)

// ExitCode maps an error returned by [Builder], [Parse] or [Run] to a process exit code. Usage
// errors map to [ExitUsage], everything else (build errors and handler errors) to [ExitError].
func ExitCode(err error) int {
	if err == nil || errors.Is(err, flag.ErrHelp) {
		return ExitOK
	}
	var (
		unrecognized *UnrecognizedArgumentError
		missing      *MissingFlagsError
		value        *flagValueError
	)
	if errors.As(err, &unrecognized) || errors.As(err, &missing) || errors.As(err, &value) {
		return ExitUsage
	}
	return ExitError
}
