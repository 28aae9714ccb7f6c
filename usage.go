package cli

import (
	"cmp"
	"flag"
	"fmt"
	"slices"
	"strings"

	"github.com/daokit/cli/pkg/textutil"
)

// DefaultUsage renders the help text of a finalized command: its short help, usage line, direct
// subcommands, its own flags and the flags inherited from the commands above it.
func DefaultUsage(c *Command) string {
	if c == nil {
		return ""
	}

	var b strings.Builder

	if c.ShortHelp != "" {
		for _, line := range textutil.Wrap(c.ShortHelp, 80) {
			b.WriteString(line)
			b.WriteRune('\n')
		}
		b.WriteRune('\n')
	}

	b.WriteString("Usage:\n")
	if c.Usage != "" {
		b.WriteString("  " + c.Usage + "\n")
	} else {
		usage := c.fullName()
		if c.lookupAnyFlag() {
			usage += " [flags]"
		}
		if len(c.SubCommands) > 0 {
			usage += " <command>"
		}
		b.WriteString("  " + usage + "\n")
	}
	b.WriteString("\n")

	if len(c.SubCommands) > 0 {
		b.WriteString("Available Commands:\n")
		sortedCommands := slices.Clone(c.SubCommands)
		slices.SortFunc(sortedCommands, func(a, b *Command) int {
			return cmp.Compare(a.Name, b.Name)
		})

		maxNameLen := 0
		for _, sub := range sortedCommands {
			if len(sub.Name) > maxNameLen {
				maxNameLen = len(sub.Name)
			}
		}

		nameWidth := maxNameLen + 4
		wrapWidth := 80 - nameWidth

		for _, sub := range sortedCommands {
			if sub.ShortHelp == "" {
				fmt.Fprintf(&b, "  %s\n", sub.Name)
				continue
			}

			lines := textutil.Wrap(sub.ShortHelp, wrapWidth)
			padding := strings.Repeat(" ", maxNameLen-len(sub.Name)+4)
			fmt.Fprintf(&b, "  %s%s%s\n", sub.Name, padding, lines[0])

			indentPadding := strings.Repeat(" ", nameWidth+2)
			for _, line := range lines[1:] {
				fmt.Fprintf(&b, "%s%s\n", indentPadding, line)
			}
		}
		b.WriteString("\n")
	}

	var flags []flagInfo
	for cur := c; cur != nil; cur = cur.parent {
		if cur.Flags == nil {
			continue
		}
		global := cur != c
		required := make(map[string]bool)
		for _, m := range cur.FlagsMetadata {
			required[m.Name] = m.Required
		}
		cur.Flags.VisitAll(func(f *flag.Flag) {
			flags = append(flags, flagInfo{
				name:     "-" + f.Name,
				usage:    f.Usage,
				defval:   f.DefValue,
				global:   global,
				required: required[f.Name],
			})
		})
	}

	if len(flags) > 0 {
		slices.SortFunc(flags, func(a, b flagInfo) int {
			return cmp.Compare(a.name, b.name)
		})

		maxFlagLen := 0
		for _, f := range flags {
			if len(f.name) > maxFlagLen {
				maxFlagLen = len(f.name)
			}
		}

		hasLocal := false
		hasGlobal := false
		for _, f := range flags {
			if f.global {
				hasGlobal = true
			} else {
				hasLocal = true
			}
		}

		if hasLocal {
			b.WriteString("Flags:\n")
			writeFlagSection(&b, flags, maxFlagLen, false)
			b.WriteString("\n")
		}

		if hasGlobal {
			b.WriteString("Global Flags:\n")
			writeFlagSection(&b, flags, maxFlagLen, true)
			b.WriteString("\n")
		}
	}

	if len(c.SubCommands) > 0 {
		fmt.Fprintf(&b, "Use \"%s [command] --help\" for more information about a command.\n", c.fullName())
	}

	return strings.TrimRight(b.String(), "\n")
}

// lookupAnyFlag reports whether any flag is visible at c.
func (c *Command) lookupAnyFlag() bool {
	for cur := c; cur != nil; cur = cur.parent {
		if cur.Flags == nil {
			continue
		}
		found := false
		cur.Flags.VisitAll(func(*flag.Flag) { found = true })
		if found {
			return true
		}
	}
	return false
}

// writeFlagSection handles the formatting of flag descriptions
func writeFlagSection(b *strings.Builder, flags []flagInfo, maxLen int, global bool) {
	nameWidth := maxLen + 4
	wrapWidth := 80 - nameWidth

	for _, f := range flags {
		if f.global != global {
			continue
		}

		description := f.usage
		if f.required {
			description += " (required)"
		} else if f.defval != "" && f.defval != "false" {
			description += fmt.Sprintf(" (default: %s)", f.defval)
		}

		lines := textutil.Wrap(description, wrapWidth)
		if len(lines) == 0 {
			lines = []string{""}
		}
		padding := strings.Repeat(" ", maxLen-len(f.name)+4)
		fmt.Fprintf(b, "  %s%s%s\n", f.name, padding, lines[0])

		indentPadding := strings.Repeat(" ", nameWidth+2)
		for _, line := range lines[1:] {
			fmt.Fprintf(b, "%s%s\n", indentPadding, line)
		}
	}
}

type flagInfo struct {
	name     string
	usage    string
	defval   string
	global   bool
	required bool
}
