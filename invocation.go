package cli

import (
	"flag"
	"fmt"
	"io"
)

// Invocation is the result of matching an argument vector against a finalized command tree: the
// path of matched commands and the resolved values of every flag declared along that path. Use
// [GetFlag] to retrieve flag values by name.
type Invocation struct {
	// Args contains the arguments that followed the "--" delimiter, if any.
	Args []string

	// Standard I/O streams. Set by [Run] from [RunOptions] when nil.
	Stdin          io.Reader
	Stdout, Stderr io.Writer

	commands []*Command
	flags    *flag.FlagSet
	help     bool
}

// Command returns the command the walk stopped at.
func (inv *Invocation) Command() *Command {
	return inv.commands[len(inv.commands)-1]
}

// Path returns the names of the matched commands, starting with the root.
func (inv *Invocation) Path() []string {
	path := make([]string, 0, len(inv.commands))
	for _, c := range inv.commands {
		path = append(path, c.Name)
	}
	return path
}

// HelpRequested reports whether -h or --help was given.
func (inv *Invocation) HelpRequested() bool {
	return inv.help
}

// Flags returns the resolved value of every flag visible at the matched command, keyed by flag
// name. Flags that were not set on the command line report their default value.
func (inv *Invocation) Flags() map[string]string {
	values := make(map[string]string)
	if inv.flags == nil {
		return values
	}
	inv.flags.VisitAll(func(f *flag.Flag) {
		values[f.Name] = f.Value.String()
	})
	return values
}

// IsSet reports whether the named flag was given on the command line.
func (inv *Invocation) IsSet(name string) bool {
	if inv.flags == nil {
		return false
	}
	var set bool
	inv.flags.Visit(func(f *flag.Flag) {
		if f.Name == name {
			set = true
		}
	})
	return set
}

// GetFlag retrieves a flag value by name, with type inference. Flags declared on any command along
// the matched path are visible. Example usage:
//
//	verbose := GetFlag[bool](inv, "verbose")
//	network := GetFlag[string](inv, "network")
//
// If the flag isn't found, or was registered with a different type, it panics: that is a
// programming error in the command definition, not a user error.
func GetFlag[T any](inv *Invocation, name string) T {
	var f *flag.Flag
	if inv.flags != nil {
		f = inv.flags.Lookup(name)
	}
	if f == nil {
		panic(fmt.Errorf("internal error: flag %q not found in command %q flag set", "-"+name, inv.Command().fullName()))
	}
	getter, ok := f.Value.(flag.Getter)
	if !ok {
		panic(fmt.Errorf("internal error: flag %q in command %q does not implement flag.Getter", "-"+name, inv.Command().fullName()))
	}
	value := getter.Get()
	v, ok := value.(T)
	if !ok {
		panic(fmt.Errorf("internal error: type mismatch for flag %q in command %q: registered %T, requested %T",
			"-"+name, inv.Command().fullName(), value, *new(T)))
	}
	return v
}
