// Package core is the command module for the diamond core: ownership, the loupe, and selector
// tooling for facet ABIs.
package core

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"

	"github.com/daokit/cli"
	"github.com/daokit/cli/internal/contract"
	"github.com/daokit/cli/internal/output"
)

// Module builds the core command tree.
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
		Name:      "core",
		ShortHelp: "Inspect the diamond core contract",
		Flags: cli.FlagsFunc(func(f *flag.FlagSet) {
			f.Bool("json", false, "print results as JSON")
		}),
		SubCommands: []*cli.Command{
			{
				Name:      "selectors",
				ShortHelp: "Print the function selectors of an ABI file (- reads stdin)",
				Flags: cli.FlagsFunc(func(f *flag.FlagSet) {
					f.String("abi", "", "path to an ABI JSON file")
				}),
				FlagsMetadata: []cli.FlagMetadata{{Name: "abi", Required: true}},
				Exec:          m.selectors,
			},
			{
				Name:          "owner",
				ShortHelp:     "Owner of the diamond",
				Flags:         contractFlags(),
				FlagsMetadata: contractFlagsMetadata,
				Exec:          m.owner,
			},
			{
				Name:          "facets",
				ShortHelp:     "Facets registered on the diamond and their selectors",
				Flags:         contractFlags(),
				FlagsMetadata: contractFlagsMetadata,
				Exec:          m.facets,
			},
		},
	}
}

func contractFlags() *flag.FlagSet {
	return cli.FlagsFunc(func(f *flag.FlagSet) {
		f.String("network", "", "network name or RPC endpoint")
		f.String("address", "", "address of the diamond")
	})
}

var contractFlagsMetadata = []cli.FlagMetadata{
	{Name: "network", Required: true},
	{Name: "address", Required: true},
}

func (m *Module) selectors(ctx context.Context, inv *cli.Invocation) error {
	path := cli.GetFlag[string](inv, "abi")
	var r io.Reader
	if path == "-" {
		r = inv.Stdin
	} else {
		f, err := os.Open(path)
		if err != nil {
			return fmt.Errorf("failed to open abi: %w", err)
		}
		defer f.Close()
		r = f
	}
	selectors, err := contract.Selectors(r)
	if err != nil {
		return err
	}
	return output.Rows(output.New(inv.Stdout, cli.GetFlag[bool](inv, "json")), selectors, func(s contract.Selector) []string {
		return []string{s.Selector, s.Signature}
	})
}

func (m *Module) open(ctx context.Context, inv *cli.Invocation) (*contract.Contract, func(), error) {
	dial := m.Dial
	if dial == nil {
		dial = contract.Dial
	}
	return contract.Open(ctx, dial, cli.GetFlag[string](inv, "network"), cli.GetFlag[string](inv, "address"), ABI)
}

func (m *Module) owner(ctx context.Context, inv *cli.Invocation) error {
	c, closeFn, err := m.open(ctx, inv)
	if err != nil {
		return err
	}
	defer closeFn()

	out, err := c.Call(ctx, "owner")
	if err != nil {
		return err
	}
	return output.New(inv.Stdout, cli.GetFlag[bool](inv, "json")).Fields(
		output.Field{Key: "owner", Value: out[0]},
	)
}

// facet is one row of the facets listing.
type facet struct {
	Address   string   `json:"address"`
	Selectors []string `json:"selectors"`
}

func (m *Module) facets(ctx context.Context, inv *cli.Invocation) error {
	c, closeFn, err := m.open(ctx, inv)
	if err != nil {
		return err
	}
	defer closeFn()

	out, err := c.Call(ctx, "facetAddresses")
	if err != nil {
		return err
	}
	addresses, ok := out[0].([]common.Address)
	if !ok {
		return fmt.Errorf("unexpected facetAddresses result %T", out[0])
	}

	facets := make([]facet, 0, len(addresses))
	for _, addr := range addresses {
		out, err := c.Call(ctx, "facetFunctionSelectors", addr)
		if err != nil {
			return err
		}
		raw, ok := out[0].([][4]byte)
		if !ok {
			return fmt.Errorf("unexpected facetFunctionSelectors result %T", out[0])
		}
		f := facet{Address: addr.Hex(), Selectors: make([]string, 0, len(raw))}
		for _, sel := range raw {
			f.Selectors = append(f.Selectors, hexutil.Encode(sel[:]))
		}
		facets = append(facets, f)
	}
	return output.Rows(output.New(inv.Stdout, cli.GetFlag[bool](inv, "json")), facets, func(f facet) []string {
		return append([]string{f.Address}, f.Selectors...)
	})
}
