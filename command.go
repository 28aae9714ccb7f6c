package cli

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"strings"
)

// Handler is the execution logic bound to a command. It receives the resolved [Invocation] and
// returns an error if execution fails. Errors are returned to the caller of [Run] unmodified.
type Handler func(ctx context.Context, inv *Invocation) error

// binding records what dispatch does when the walk stops at a command. It is resolved once by
// [Builder.Finalize] so that dispatch never inspects a nil handler.
type binding int

const (
	bindingNone binding = iota
	bindingExec
	bindingHelp
)

// Command represents one node of the command tree: the root, a module mounted under the root, or
// any subcommand nested inside a module.
type Command struct {
	// Name is always a single word representing the command's name. It must be unique among its
	// siblings and is used to match arguments during the walk and in help text.
	Name string

	// Usage provides the command's full usage pattern.
	//
	// Example: "dao moonstream balance-of [flags]"
	Usage string

	// ShortHelp is a brief description of the command's purpose. It is displayed in the help text
	// of the command and of its parent.
	ShortHelp string

	// UsageFunc is an optional function that can be used to generate a custom usage string for the
	// command.
	UsageFunc func(*Command) string

	// Flags holds the command-specific flag definitions. Flags are cumulative down the path: a
	// subcommand accepts every flag of the commands above it.
	Flags *flag.FlagSet
	// FlagsMetadata is an optional list of flag information to extend the FlagSet with additional
	// metadata. This is useful for tracking required flags.
	FlagsMetadata []FlagMetadata

	// SubCommands is a list of nested commands that exist under this command.
	SubCommands []*Command

	// Exec is the handler bound to this command. A command with subcommands may leave it nil, in
	// which case reaching it prints help. A command without subcommands must set it.
	Exec Handler

	parent    *Command
	binding   binding
	finalized bool
}

// FlagMetadata holds additional metadata for a flag, such as whether it is required.
type FlagMetadata struct {
	// Name is the flag's name. Must match the flag name in the flag set.
	Name string

	// Required indicates whether the flag is required.
	Required bool
}

// FlagsFunc is a helper function that creates a new [flag.FlagSet] and applies the given function
// to it. Intended for use in command definitions to simplify flag setup. Example usage:
//
//	cmd.Flags = cli.FlagsFunc(func(f *flag.FlagSet) {
//	    f.String("network", "", "network name or RPC URL")
//	    f.Bool("json", false, "print JSON output")
//	})
func FlagsFunc(fn func(*flag.FlagSet)) *flag.FlagSet {
	fset := flag.NewFlagSet("", flag.ContinueOnError)
	fn(fset)
	return fset
}

// findSubCommand searches for a direct subcommand by name. Returns nil if no subcommand with the
// given name exists.
func (c *Command) findSubCommand(name string) *Command {
	for _, sub := range c.SubCommands {
		if sub.Name == name {
			return sub
		}
	}
	return nil
}

// path returns the names from the root down to c. Valid once the tree is finalized.
func (c *Command) path() []string {
	var names []string
	for cur := c; cur != nil; cur = cur.parent {
		names = append([]string{cur.Name}, names...)
	}
	return names
}

func (c *Command) fullName() string {
	return strings.Join(c.path(), " ")
}

// lookupFlag finds a flag declared on c or on any of its ancestors.
func (c *Command) lookupFlag(name string) *flag.Flag {
	for cur := c; cur != nil; cur = cur.parent {
		if cur.Flags == nil {
			continue
		}
		if f := cur.Flags.Lookup(name); f != nil {
			return f
		}
	}
	return nil
}

func validateName(name string, path []string) error {
	if name == "" {
		if len(path) == 0 {
			return errors.New("root command has no name")
		}
		return fmt.Errorf("subcommand in path %q has no name", strings.Join(path, " "))
	}
	if strings.ContainsAny(name, " \t\n") {
		return fmt.Errorf("command name %q contains spaces, must be a single word", name)
	}
	if strings.HasPrefix(name, "-") {
		return fmt.Errorf("command name %q must not start with a dash", name)
	}
	return nil
}

// finalize validates c and its subtree, links parents and resolves bindings. inherited maps every
// flag name declared above c to the command that declared it.
func (c *Command) finalize(parent *Command, inherited map[string]string) error {
	var parentPath []string
	if parent != nil {
		parentPath = parent.path()
	}
	if err := validateName(c.Name, parentPath); err != nil {
		return err
	}
	c.parent = parent
	name := c.fullName()

	declared := make(map[string]string, len(inherited))
	for k, v := range inherited {
		declared[k] = v
	}
	if c.Flags != nil {
		var shadowErr error
		c.Flags.VisitAll(func(f *flag.Flag) {
			if owner, ok := inherited[f.Name]; ok && shadowErr == nil {
				shadowErr = fmt.Errorf("command %q: flag -%s already defined by %q", name, f.Name, owner)
			}
			declared[f.Name] = name
		})
		if shadowErr != nil {
			return shadowErr
		}
	}
	for _, m := range c.FlagsMetadata {
		if c.Flags == nil || c.Flags.Lookup(m.Name) == nil {
			return fmt.Errorf("command %q: internal error: flag metadata for -%s not found in flag set", name, m.Name)
		}
	}

	seen := make(map[string]bool, len(c.SubCommands))
	for _, sub := range c.SubCommands {
		if sub == nil {
			return fmt.Errorf("command %q: nil subcommand", name)
		}
		if seen[sub.Name] {
			return &DuplicateSubcommandError{Path: c.path(), Name: sub.Name}
		}
		seen[sub.Name] = true
		if err := sub.finalize(c, declared); err != nil {
			return err
		}
	}

	switch {
	case c.Exec != nil:
		c.binding = bindingExec
	case len(c.SubCommands) > 0 || parent == nil:
		c.binding = bindingHelp
	default:
		return &NoExecError{Command: c}
	}
	return nil
}
