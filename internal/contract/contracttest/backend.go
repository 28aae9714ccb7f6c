// Package contracttest provides an in-memory contract backend for tests.
package contracttest

import (
	"context"
	"fmt"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"

	"github.com/daokit/cli/internal/contract"
)

// Call records one eth_call received by the backend.
type Call struct {
	To     common.Address
	Method string
	Args   []interface{}
}

// Backend answers eth_call requests from canned outputs keyed by method name.
type Backend struct {
	abi abi.ABI

	outputs  map[string][]interface{}
	errs     map[string]error
	calls    []Call
	closed   bool
	endpoint string
}

// New returns a backend that decodes calls using abiJSON. It panics if abiJSON is invalid.
func New(abiJSON string) *Backend {
	parsed, err := abi.JSON(strings.NewReader(abiJSON))
	if err != nil {
		panic(err)
	}
	return &Backend{
		abi:     parsed,
		outputs: make(map[string][]interface{}),
		errs:    make(map[string]error),
	}
}

// Return sets the values method returns.
func (b *Backend) Return(method string, values ...interface{}) *Backend {
	b.outputs[method] = values
	return b
}

// Fail makes calls to method fail with err.
func (b *Backend) Fail(method string, err error) *Backend {
	b.errs[method] = err
	return b
}

// Dialer returns a [contract.Dialer] that hands out b and records the endpoint.
func (b *Backend) Dialer() contract.Dialer {
	return func(ctx context.Context, endpoint string) (contract.Backend, error) {
		b.endpoint = endpoint
		return b, nil
	}
}

// CallContract implements [ethereum.ContractCaller].
func (b *Backend) CallContract(ctx context.Context, msg ethereum.CallMsg, _ *big.Int) ([]byte, error) {
	if len(msg.Data) < 4 {
		return nil, fmt.Errorf("calldata too short: %s", hexutil.Encode(msg.Data))
	}
	method, err := b.abi.MethodById(msg.Data[:4])
	if err != nil {
		return nil, err
	}
	args, err := method.Inputs.Unpack(msg.Data[4:])
	if err != nil {
		return nil, err
	}

	var to common.Address
	if msg.To != nil {
		to = *msg.To
	}
	b.calls = append(b.calls, Call{To: to, Method: method.Name, Args: args})
	if err := b.errs[method.Name]; err != nil {
		return nil, err
	}
	values, ok := b.outputs[method.Name]
	if !ok {
		return nil, fmt.Errorf("no output configured for %s", method.Name)
	}
	return method.Outputs.Pack(values...)
}

// Close implements [contract.Backend].
func (b *Backend) Close() {
	b.closed = true
}

// Calls returns the calls received so far.
func (b *Backend) Calls() []Call {
	return append([]Call(nil), b.calls...)
}

// Closed reports whether Close was called.
func (b *Backend) Closed() bool {
	return b.closed
}

// Endpoint returns the endpoint passed to the last dial.
func (b *Backend) Endpoint() string {
	return b.endpoint
}
