// Package contract performs read-only calls against EVM contracts through a JSON-RPC backend.
package contract

import (
	"context"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/ethclient"
	log "github.com/sirupsen/logrus"

	"github.com/daokit/cli/internal/network"
)

// Backend is a connection that can execute eth_call. [*ethclient.Client] satisfies it.
type Backend interface {
	ethereum.ContractCaller
	Close()
}

// Dialer opens a backend for an RPC endpoint.
type Dialer func(ctx context.Context, endpoint string) (Backend, error)

// Dial connects to endpoint with go-ethereum's RPC client.
func Dial(ctx context.Context, endpoint string) (Backend, error) {
	client, err := ethclient.DialContext(ctx, endpoint)
	if err != nil {
		return nil, fmt.Errorf("failed to dial %s: %w", endpoint, err)
	}
	return client, nil
}

// Contract binds an ABI to a deployed address.
type Contract struct {
	address common.Address
	abi     abi.ABI
	caller  ethereum.ContractCaller
}

// New parses abiJSON and binds it to address.
func New(address common.Address, abiJSON string, caller ethereum.ContractCaller) (*Contract, error) {
	parsed, err := abi.JSON(strings.NewReader(abiJSON))
	if err != nil {
		return nil, fmt.Errorf("failed to parse abi: %w", err)
	}
	return &Contract{address: address, abi: parsed, caller: caller}, nil
}

// Address returns the bound contract address.
func (c *Contract) Address() common.Address {
	return c.address
}

// Call executes a read-only method at the latest block and returns its decoded outputs.
func (c *Contract) Call(ctx context.Context, method string, args ...interface{}) ([]interface{}, error) {
	data, err := c.abi.Pack(method, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to pack %s: %w", method, err)
	}
	log.WithFields(log.Fields{
		"address": c.address.Hex(),
		"method":  method,
	}).Debug("eth_call")
	out, err := c.caller.CallContract(ctx, ethereum.CallMsg{To: &c.address, Data: data}, nil)
	if err != nil {
		return nil, fmt.Errorf("call %s on %s: %w", method, c.address.Hex(), err)
	}
	values, err := c.abi.Unpack(method, out)
	if err != nil {
		return nil, fmt.Errorf("failed to unpack %s: %w", method, err)
	}
	return values, nil
}

// Open resolves networkName, dials it and binds abiJSON to the hex address. The returned close
// function releases the connection.
func Open(ctx context.Context, dial Dialer, networkName, address, abiJSON string) (*Contract, func(), error) {
	addr, err := ParseAddress(address)
	if err != nil {
		return nil, nil, err
	}
	endpoint, err := network.Resolve(networkName)
	if err != nil {
		return nil, nil, err
	}
	log.WithFields(log.Fields{"network": networkName, "endpoint": endpoint}).Debug("dialing")
	backend, err := dial(ctx, endpoint)
	if err != nil {
		return nil, nil, err
	}
	c, err := New(addr, abiJSON, backend)
	if err != nil {
		backend.Close()
		return nil, nil, err
	}
	return c, backend.Close, nil
}

// ParseAddress parses a 0x-prefixed or bare 20-byte hex address.
func ParseAddress(s string) (common.Address, error) {
	if !common.IsHexAddress(s) {
		return common.Address{}, fmt.Errorf("invalid address %q", s)
	}
	return common.HexToAddress(s), nil
}

// Selector pairs a method's 4-byte selector with its canonical signature.
type Selector struct {
	Selector  string `json:"selector"`
	Signature string `json:"signature"`
}

// Selectors reads an ABI JSON document and returns the selectors of all its methods, ordered by
// signature.
func Selectors(r io.Reader) ([]Selector, error) {
	parsed, err := abi.JSON(r)
	if err != nil {
		return nil, fmt.Errorf("failed to parse abi: %w", err)
	}
	selectors := make([]Selector, 0, len(parsed.Methods))
	for _, m := range parsed.Methods {
		selectors = append(selectors, Selector{
			Selector:  hexutil.Encode(m.ID),
			Signature: m.Sig,
		})
	}
	sort.Slice(selectors, func(i, j int) bool {
		return selectors[i].Signature < selectors[j].Signature
	})
	return selectors, nil
}

// Calldata returns the 0x-prefixed ABI encoding of a call to method.
func Calldata(abiJSON, method string, args ...interface{}) (string, error) {
	parsed, err := abi.JSON(strings.NewReader(abiJSON))
	if err != nil {
		return "", fmt.Errorf("failed to parse abi: %w", err)
	}
	data, err := parsed.Pack(method, args...)
	if err != nil {
		return "", fmt.Errorf("failed to pack %s: %w", method, err)
	}
	return hexutil.Encode(data), nil
}
