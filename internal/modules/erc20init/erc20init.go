// Package erc20init is the command module for the ERC20 initializer contract. Its commands are
// offline: they produce the calldata passed to diamondCut when the ERC20 facet is attached.
package erc20init

import (
	"context"
	"flag"

	"github.com/daokit/cli"
	"github.com/daokit/cli/internal/contract"
	"github.com/daokit/cli/internal/output"
)

// ABI is the initializer's interface.
const ABI = `[{"type":"function","name":"init","stateMutability":"nonpayable","inputs":[],"outputs":[]}]`

// Module builds the initializer command tree.
type Module struct{}

// New returns the initializer module.
func New() *Module {
	return &Module{}
}

// Command implements [cli.Module].
func (m *Module) Command() *cli.Command {
	return &cli.Command{
		Name:      "erc20-initializer",
		ShortHelp: "Encode calls to the ERC20 initializer",
		Flags: cli.FlagsFunc(func(f *flag.FlagSet) {
			f.Bool("json", false, "print results as JSON")
		}),
		SubCommands: []*cli.Command{
			{
				Name:      "calldata",
				ShortHelp: "Calldata for init()",
				Exec:      m.calldata,
			},
			{
				Name:      "selector",
				ShortHelp: "Selector of init()",
				Exec:      m.selector,
			},
		},
	}
}

func (m *Module) calldata(ctx context.Context, inv *cli.Invocation) error {
	data, err := contract.Calldata(ABI, "init")
	if err != nil {
		return err
	}
	return output.New(inv.Stdout, cli.GetFlag[bool](inv, "json")).Fields(
		output.Field{Key: "calldata", Value: data},
	)
}

func (m *Module) selector(ctx context.Context, inv *cli.Invocation) error {
	data, err := contract.Calldata(ABI, "init")
	if err != nil {
		return err
	}
	// A call without arguments encodes to its selector alone.
	return output.New(inv.Stdout, cli.GetFlag[bool](inv, "json")).Fields(
		output.Field{Key: "selector", Value: data[:10]},
		output.Field{Key: "signature", Value: "init()"},
	)
}
