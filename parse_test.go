package cli

import (
	"context"
	"errors"
	"flag"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testState is a helper struct to hold the commands for testing
//
//	todo --verbose --version
//	├── add --dry-run
//	└── nested --force
//	    ├── sub --echo
//	    └── hello --mandatory-flag --another-mandatory-flag (both required)
type testState struct {
	add                *Command
	nested, sub, hello *Command
	root               *Command
}

func newTestState(t *testing.T) testState {
	t.Helper()

	exec := func(ctx context.Context, inv *Invocation) error { return errors.New("not implemented") }
	add := &Command{
		Name: "add",
		Flags: FlagsFunc(func(fset *flag.FlagSet) {
			fset.Bool("dry-run", false, "enable dry-run mode")
		}),
		Exec: exec,
	}
	sub := &Command{
		Name: "sub",
		Flags: FlagsFunc(func(fset *flag.FlagSet) {
			fset.String("echo", "", "echo the message")
		}),
		FlagsMetadata: []FlagMetadata{
			{Name: "echo", Required: false}, // not required
		},
		Exec: exec,
	}
	hello := &Command{
		Name: "hello",
		Flags: FlagsFunc(func(fset *flag.FlagSet) {
			fset.Bool("mandatory-flag", false, "mandatory flag")
			fset.String("another-mandatory-flag", "", "another mandatory flag")
		}),
		FlagsMetadata: []FlagMetadata{
			{Name: "mandatory-flag", Required: true},
			{Name: "another-mandatory-flag", Required: true},
		},
		Exec: exec,
	}
	nested := &Command{
		Name: "nested",
		Flags: FlagsFunc(func(fset *flag.FlagSet) {
			fset.Bool("force", false, "force the operation")
		}),
		SubCommands: []*Command{sub, hello},
		Exec:        exec,
	}
	root := &Command{
		Name: "todo",
		Flags: FlagsFunc(func(fset *flag.FlagSet) {
			fset.Bool("verbose", false, "enable verbose mode")
			fset.Bool("version", false, "show version")
		}),
	}
	b := NewBuilder(root)
	require.NoError(t, b.Register("add", ModuleFunc(func() *Command { return add })))
	require.NoError(t, b.Register("nested", ModuleFunc(func() *Command { return nested })))
	_, err := b.Finalize()
	require.NoError(t, err)
	return testState{
		add:    add,
		nested: nested,
		sub:    sub,
		root:   root,
		hello:  hello,
	}
}

func TestParse(t *testing.T) {
	t.Parallel()

	t.Run("parsing errors", func(t *testing.T) {
		t.Parallel()

		_, err := Parse(nil, nil)
		require.Error(t, err)
		require.Contains(t, err.Error(), "command is nil")

		_, err = Parse(&Command{Name: "root"}, nil)
		require.ErrorIs(t, err, ErrNotFinalized)
	})
	t.Run("no args", func(t *testing.T) {
		t.Parallel()
		s := newTestState(t)

		inv, err := Parse(s.root, nil)
		require.NoError(t, err)
		assert.Equal(t, s.root, inv.Command())
		assert.Equal(t, []string{"todo"}, inv.Path())
		assert.False(t, inv.HelpRequested())
	})
	t.Run("no flags", func(t *testing.T) {
		t.Parallel()
		s := newTestState(t)

		inv, err := Parse(s.root, []string{"add"})
		require.NoError(t, err)
		assert.Equal(t, s.add, inv.Command())
		assert.False(t, GetFlag[bool](inv, "dry-run"))
	})
	t.Run("unknown flag", func(t *testing.T) {
		t.Parallel()
		s := newTestState(t)

		_, err := Parse(s.root, []string{"add", "--unknown"})
		require.Error(t, err)
		var unrecognized *UnrecognizedArgumentError
		require.ErrorAs(t, err, &unrecognized)
		assert.Equal(t, "--unknown", unrecognized.Token)
		assert.Equal(t, []string{"todo", "add"}, unrecognized.Path)
		assert.Empty(t, unrecognized.Commands)
		assert.Equal(t, []string{"-dry-run", "-verbose", "-version"}, unrecognized.Flags)
		assert.EqualError(t, err, `command "todo add": unrecognized argument "--unknown" (valid: -dry-run, -verbose, -version)`)
		assert.Equal(t, ExitUsage, ExitCode(err))
	})
	t.Run("positional argument", func(t *testing.T) {
		t.Parallel()
		s := newTestState(t)

		_, err := Parse(s.root, []string{"add", "item1"})
		var unrecognized *UnrecognizedArgumentError
		require.ErrorAs(t, err, &unrecognized)
		assert.Equal(t, "item1", unrecognized.Token)
	})
	t.Run("unknown subcommand", func(t *testing.T) {
		t.Parallel()
		s := newTestState(t)

		_, err := Parse(s.root, []string{"unknown"})
		var unrecognized *UnrecognizedArgumentError
		require.ErrorAs(t, err, &unrecognized)
		assert.Equal(t, []string{"add", "nested"}, unrecognized.Commands)
	})
	t.Run("typo suggestion", func(t *testing.T) {
		t.Parallel()
		s := newTestState(t)

		_, err := Parse(s.root, []string{"nested", "hellp"})
		require.Error(t, err)
		assert.EqualError(t, err, "command \"todo nested\": unrecognized argument \"hellp\" "+
			"(valid: sub, hello, -force, -verbose, -version). Did you mean one of these?\n\thello")
	})
	t.Run("custom flag values only see given arguments", func(t *testing.T) {
		t.Parallel()
		var seen []string
		root, err := NewBuilder(&Command{
			Name: "dao",
			Flags: FlagsFunc(func(fset *flag.FlagSet) {
				fset.Func("tag", "tag to apply", func(s string) error {
					seen = append(seen, s)
					return nil
				})
				fset.String("network", "local", "network to use")
			}),
			Exec: func(ctx context.Context, inv *Invocation) error { return nil },
		}).Finalize()
		require.NoError(t, err)

		inv, err := Parse(root, []string{"--tag", "a", "--network", "mainnet"})
		require.NoError(t, err)
		assert.Equal(t, []string{"a"}, seen)
		assert.Equal(t, "mainnet", GetFlag[string](inv, "network"))

		inv, err = Parse(root, []string{"--tag", "b"})
		require.NoError(t, err)
		assert.Equal(t, []string{"a", "b"}, seen)
		assert.Equal(t, "local", GetFlag[string](inv, "network"))
	})
	t.Run("with subcommand flags", func(t *testing.T) {
		t.Parallel()
		s := newTestState(t)

		inv, err := Parse(s.root, []string{"add", "--dry-run"})
		require.NoError(t, err)
		assert.Equal(t, s.add, inv.Command())
		assert.True(t, GetFlag[bool](inv, "dry-run"))
		assert.True(t, inv.IsSet("dry-run"))
		assert.False(t, inv.IsSet("verbose"))
	})
	t.Run("help flag", func(t *testing.T) {
		t.Parallel()
		for _, arg := range []string{"-h", "--h", "-help", "--help"} {
			s := newTestState(t)
			inv, err := Parse(s.root, []string{arg})
			require.NoError(t, err)
			assert.True(t, inv.HelpRequested())
			assert.Equal(t, s.root, inv.Command())
		}
	})
	t.Run("help flag with subcommand", func(t *testing.T) {
		t.Parallel()
		s := newTestState(t)

		inv, err := Parse(s.root, []string{"add", "--help", "--unknown"})
		require.NoError(t, err)
		assert.True(t, inv.HelpRequested())
		assert.Equal(t, s.add, inv.Command())
	})
	t.Run("help flag before subcommand", func(t *testing.T) {
		t.Parallel()
		s := newTestState(t)

		inv, err := Parse(s.root, []string{"--help", "add"})
		require.NoError(t, err)
		assert.True(t, inv.HelpRequested())
		assert.Equal(t, s.root, inv.Command())
	})
	t.Run("help flag skips required flags", func(t *testing.T) {
		t.Parallel()
		s := newTestState(t)

		inv, err := Parse(s.root, []string{"nested", "hello", "--help"})
		require.NoError(t, err)
		assert.Equal(t, s.hello, inv.Command())
	})
	t.Run("flags at multiple levels", func(t *testing.T) {
		t.Parallel()
		s := newTestState(t)

		inv, err := Parse(s.root, []string{"add", "--dry-run", "--verbose"})
		require.NoError(t, err)
		assert.Equal(t, s.add, inv.Command())
		assert.True(t, GetFlag[bool](inv, "dry-run"))
		assert.True(t, GetFlag[bool](inv, "verbose"))
	})
	t.Run("nested subcommand and root flag", func(t *testing.T) {
		t.Parallel()
		s := newTestState(t)

		inv, err := Parse(s.root, []string{"--verbose", "nested", "sub", "--echo", "hello"})
		require.NoError(t, err)
		assert.Equal(t, s.sub, inv.Command())
		assert.Equal(t, []string{"todo", "nested", "sub"}, inv.Path())
		assert.Equal(t, "hello", GetFlag[string](inv, "echo"))
		assert.True(t, GetFlag[bool](inv, "verbose"))
	})
	t.Run("flag value that names a subcommand", func(t *testing.T) {
		t.Parallel()
		s := newTestState(t)

		inv, err := Parse(s.root, []string{"nested", "sub", "--echo", "add"})
		require.NoError(t, err)
		assert.Equal(t, s.sub, inv.Command())
		assert.Equal(t, "add", GetFlag[string](inv, "echo"))
	})
	t.Run("inline flag value", func(t *testing.T) {
		t.Parallel()
		s := newTestState(t)

		inv, err := Parse(s.root, []string{"nested", "sub", "-echo=hi there"})
		require.NoError(t, err)
		assert.Equal(t, "hi there", GetFlag[string](inv, "echo"))
	})
	t.Run("missing flag value", func(t *testing.T) {
		t.Parallel()
		s := newTestState(t)

		_, err := Parse(s.root, []string{"nested", "sub", "--echo"})
		require.Error(t, err)
		assert.ErrorContains(t, err, `command "todo nested sub": flag needs an argument: -echo`)
		assert.Equal(t, ExitUsage, ExitCode(err))
	})
	t.Run("end of options delimiter", func(t *testing.T) {
		t.Parallel()
		s := newTestState(t)

		inv, err := Parse(s.root, []string{"--verbose", "--", "nested", "sub", "--echo", "hello"})
		require.NoError(t, err)
		assert.Equal(t, s.root, inv.Command())
		assert.Equal(t, []string{"nested", "sub", "--echo", "hello"}, inv.Args)
		assert.True(t, GetFlag[bool](inv, "verbose"))
	})
	t.Run("subcommand flags not available in parent", func(t *testing.T) {
		t.Parallel()
		s := newTestState(t)

		_, err := Parse(s.root, []string{"--dry-run"})
		var unrecognized *UnrecognizedArgumentError
		require.ErrorAs(t, err, &unrecognized)
		assert.Equal(t, "--dry-run", unrecognized.Token)
	})
	t.Run("parent flags inherited in subcommand", func(t *testing.T) {
		t.Parallel()
		s := newTestState(t)

		inv, err := Parse(s.root, []string{"nested", "sub", "--force"})
		require.NoError(t, err)
		assert.Equal(t, s.sub, inv.Command())
		assert.True(t, GetFlag[bool](inv, "force"))
	})
	t.Run("unrelated subcommand flags not inherited in other subcommands", func(t *testing.T) {
		t.Parallel()
		s := newTestState(t)

		_, err := Parse(s.root, []string{"nested", "sub", "--dry-run"})
		var unrecognized *UnrecognizedArgumentError
		require.ErrorAs(t, err, &unrecognized)
		assert.Equal(t, []string{"todo", "nested", "sub"}, unrecognized.Path)
	})
	t.Run("resolved flags", func(t *testing.T) {
		t.Parallel()
		s := newTestState(t)

		inv, err := Parse(s.root, []string{"nested", "--force", "sub", "--echo=x"})
		require.NoError(t, err)
		assert.Equal(t, map[string]string{
			"verbose": "false",
			"version": "false",
			"force":   "true",
			"echo":    "x",
		}, inv.Flags())
	})
	t.Run("values reset between parses", func(t *testing.T) {
		t.Parallel()
		s := newTestState(t)

		inv, err := Parse(s.root, []string{"add", "--dry-run"})
		require.NoError(t, err)
		require.True(t, GetFlag[bool](inv, "dry-run"))

		inv, err = Parse(s.root, []string{"add"})
		require.NoError(t, err)
		assert.False(t, GetFlag[bool](inv, "dry-run"))
	})
	t.Run("required flag", func(t *testing.T) {
		t.Parallel()
		{
			s := newTestState(t)
			_, err := Parse(s.root, []string{"nested", "hello"})
			require.Error(t, err)
			var missing *MissingFlagsError
			require.ErrorAs(t, err, &missing)
			assert.Equal(t, []string{"mandatory-flag", "another-mandatory-flag"}, missing.Names)
			require.ErrorContains(t, err, `command "todo nested hello": required flags "-mandatory-flag, -another-mandatory-flag" not set`)
			assert.Equal(t, ExitUsage, ExitCode(err))
		}
		{
			// Correct type - true
			s := newTestState(t)
			inv, err := Parse(s.root, []string{"nested", "hello", "--mandatory-flag=true", "--another-mandatory-flag", "some-value"})
			require.NoError(t, err)
			assert.Equal(t, s.hello, inv.Command())
			require.True(t, GetFlag[bool](inv, "mandatory-flag"))
		}
		{
			// Correct type - false
			s := newTestState(t)
			inv, err := Parse(s.root, []string{"nested", "hello", "--mandatory-flag=false", "--another-mandatory-flag=some-value"})
			require.NoError(t, err)
			assert.Equal(t, s.hello, inv.Command())
			require.False(t, GetFlag[bool](inv, "mandatory-flag"))
		}
		{
			// Incorrect type
			s := newTestState(t)
			_, err := Parse(s.root, []string{"nested", "hello", "--mandatory-flag=not-a-bool"})
			require.Error(t, err)
			require.ErrorContains(t, err, `command "todo nested hello": invalid boolean value "not-a-bool" for -mandatory-flag`)
			assert.Equal(t, ExitUsage, ExitCode(err))
		}
	})
}

func TestGetFlag(t *testing.T) {
	t.Parallel()

	t.Run("flag not found", func(t *testing.T) {
		t.Parallel()
		s := newTestState(t)
		inv, err := Parse(s.root, nil)
		require.NoError(t, err)
		defer func() {
			r := recover()
			require.NotNil(t, r)
			err, ok := r.(error)
			require.True(t, ok)
			assert.ErrorContains(t, err, `flag "-dry-run" not found in command "todo" flag set`)
		}()
		// Panic because the flag belongs to a command that is not on the path
		_ = GetFlag[bool](inv, "dry-run")
	})
	t.Run("flag type mismatch", func(t *testing.T) {
		t.Parallel()
		s := newTestState(t)
		inv, err := Parse(s.root, []string{"nested", "sub"})
		require.NoError(t, err)
		defer func() {
			r := recover()
			require.NotNil(t, r)
			err, ok := r.(error)
			require.True(t, ok)
			assert.ErrorContains(t, err, `type mismatch for flag "-echo" in command "todo nested sub": registered string, requested int`)
		}()
		// Panic because the flag was registered with a different type
		_ = GetFlag[int](inv, "echo")
	})
}
