// Package erc20facet is the command module for the ERC20 facet of the DAO token diamond. Every
// subcommand is a read-only call against the contract at -address on -network.
package erc20facet

import (
	"context"
	"flag"

	"github.com/daokit/cli"
	"github.com/daokit/cli/internal/contract"
	"github.com/daokit/cli/internal/output"
)

// Module builds the ERC20 facet command tree.
type Module struct {
	// Dial opens the RPC backend. Defaults to [contract.Dial].
	Dial contract.Dialer
}

// New returns a module that dials real RPC endpoints.
func New() *Module {
	return &Module{Dial: contract.Dial}
}

// Command implements [cli.Module].
func (m *Module) Command() *cli.Command {
	return &cli.Command{
		Name:      "erc20",
		ShortHelp: "Query the ERC20 facet of the token diamond",
		Flags: cli.FlagsFunc(func(f *flag.FlagSet) {
			f.String("network", "", "network name or RPC endpoint")
			f.String("address", "", "address of the token diamond")
			f.Bool("json", false, "print results as JSON")
		}),
		FlagsMetadata: []cli.FlagMetadata{
			{Name: "network", Required: true},
			{Name: "address", Required: true},
		},
		SubCommands: []*cli.Command{
			m.view("name", "Name of the token", "name"),
			m.view("symbol", "Symbol of the token", "symbol"),
			m.view("decimals", "Number of decimals the token uses", "decimals"),
			m.view("total-supply", "Total token supply", "totalSupply"),
			{
				Name:      "balance-of",
				ShortHelp: "Token balance of an account",
				Flags: cli.FlagsFunc(func(f *flag.FlagSet) {
					f.String("account", "", "account to query")
				}),
				FlagsMetadata: []cli.FlagMetadata{{Name: "account", Required: true}},
				Exec: func(ctx context.Context, inv *cli.Invocation) error {
					account, err := contract.ParseAddress(cli.GetFlag[string](inv, "account"))
					if err != nil {
						return err
					}
					return m.call(ctx, inv, "balanceOf", []output.Field{
						{Key: "account", Value: account},
					}, account)
				},
			},
			{
				Name:      "allowance",
				ShortHelp: "Amount a spender may transfer on behalf of an owner",
				Flags: cli.FlagsFunc(func(f *flag.FlagSet) {
					f.String("owner", "", "token owner")
					f.String("spender", "", "approved spender")
				}),
				FlagsMetadata: []cli.FlagMetadata{
					{Name: "owner", Required: true},
					{Name: "spender", Required: true},
				},
				Exec: func(ctx context.Context, inv *cli.Invocation) error {
					owner, err := contract.ParseAddress(cli.GetFlag[string](inv, "owner"))
					if err != nil {
						return err
					}
					spender, err := contract.ParseAddress(cli.GetFlag[string](inv, "spender"))
					if err != nil {
						return err
					}
					return m.call(ctx, inv, "allowance", []output.Field{
						{Key: "owner", Value: owner},
						{Key: "spender", Value: spender},
					}, owner, spender)
				},
			},
		},
	}
}

// view returns a leaf that calls an argument-less method.
func (m *Module) view(name, help, method string) *cli.Command {
	return &cli.Command{
		Name:      name,
		ShortHelp: help,
		Exec: func(ctx context.Context, inv *cli.Invocation) error {
			return m.call(ctx, inv, method, nil)
		},
	}
}

// call invokes method and prints the given fields followed by the result under the method name.
func (m *Module) call(ctx context.Context, inv *cli.Invocation, method string, fields []output.Field, args ...interface{}) error {
	dial := m.Dial
	if dial == nil {
		dial = contract.Dial
	}
	c, closeFn, err := contract.Open(ctx, dial,
		cli.GetFlag[string](inv, "network"),
		cli.GetFlag[string](inv, "address"),
		ABI,
	)
	if err != nil {
		return err
	}
	defer closeFn()

	out, err := c.Call(ctx, method, args...)
	if err != nil {
		return err
	}
	fields = append(fields, output.Field{Key: method, Value: out[0]})
	return output.New(inv.Stdout, cli.GetFlag[bool](inv, "json")).Fields(fields...)
}
