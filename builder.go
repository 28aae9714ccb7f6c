package cli

import (
	"errors"
	"fmt"
)

// Module contributes one top-level subcommand and its entire subtree. Implementations build their
// command without referencing the root; construction must be free of side effects. Command must
// return a new node on every call: [Builder.Register] renames the node it is given.
type Module interface {
	Command() *Command
}

// ModuleFunc adapts a plain factory function to a [Module].
type ModuleFunc func() *Command

func (f ModuleFunc) Command() *Command { return f() }

// reservedNames cannot be used as top-level module names.
var reservedNames = map[string]bool{
	"help": true,
}

// Builder assembles a root command from independently defined modules. It is used once at process
// startup: Register every module, then call Finalize before parsing any arguments.
type Builder struct {
	root      *Command
	finalized bool
}

// NewBuilder returns a builder for the given root command. The root may already declare flags and
// static subcommands; they take part in the same duplicate checks as registered modules.
func NewBuilder(root *Command) *Builder {
	return &Builder{root: root}
}

// Register builds the module's command and mounts it under name. The mount name replaces whatever
// name the module gave its command. It returns a [*DuplicateSubcommandError] if name is already
// taken by another child of the root.
func (b *Builder) Register(name string, m Module) error {
	if b.finalized {
		return ErrFinalized
	}
	if b.root == nil {
		return errors.New("failed to register: root command is nil")
	}
	if err := validateName(name, []string{b.root.Name}); err != nil {
		return fmt.Errorf("failed to register: %w", err)
	}
	if reservedNames[name] {
		return fmt.Errorf("failed to register: %q is a reserved command name", name)
	}
	if b.root.findSubCommand(name) != nil {
		return &DuplicateSubcommandError{Path: []string{b.root.Name}, Name: name}
	}
	if m == nil {
		return fmt.Errorf("failed to register %q: module is nil", name)
	}
	cmd := m.Command()
	if cmd == nil {
		return fmt.Errorf("failed to register %q: module returned a nil command", name)
	}
	for _, sub := range b.root.SubCommands {
		if sub == cmd {
			return fmt.Errorf("failed to register %q: module returned the command already mounted as %q", name, sub.Name)
		}
	}
	cmd.Name = name
	b.root.SubCommands = append(b.root.SubCommands, cmd)
	return nil
}

// Finalize validates the assembled tree and returns the root. It must be called exactly once,
// after all calls to Register and before [Parse]. Validation errors include duplicate sibling
// names at any level, commands without a name, leaf commands without an execution function,
// flags redefined below the command that declares them, and flag metadata naming unknown flags.
func (b *Builder) Finalize() (*Command, error) {
	if b.finalized {
		return nil, ErrFinalized
	}
	if b.root == nil {
		return nil, errors.New("failed to finalize: root command is nil")
	}
	b.finalized = true
	if err := b.root.finalize(nil, nil); err != nil {
		return nil, fmt.Errorf("failed to finalize: %w", err)
	}
	b.root.finalized = true
	return b.root, nil
}
