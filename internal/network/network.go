// Package network resolves the value of a --network flag to an RPC endpoint.
//
// A value that already is an endpoint (http, https, ws, wss URL or a path to an IPC socket) is
// used as is. Any other value is a network name looked up in the environment as
// DAO_RPC_<NAME>, where NAME is upper-cased and dashes and dots become underscores. For example
// "polygon-mainnet" reads DAO_RPC_POLYGON_MAINNET.
package network

import (
	"errors"
	"fmt"
	"os"
	"strings"
)

// EnvPrefix prefixes the environment variables that hold RPC endpoints for named networks.
const EnvPrefix = "DAO_RPC_"

// ErrNoNetwork is returned when the network value is empty.
var ErrNoNetwork = errors.New("no network specified")

var schemes = []string{"http://", "https://", "ws://", "wss://"}

// LookupFunc has the signature of [os.LookupEnv].
type LookupFunc func(key string) (string, bool)

// Resolve returns the RPC endpoint for network, reading named networks from the process
// environment.
func Resolve(network string) (string, error) {
	return ResolveWith(network, os.LookupEnv)
}

// ResolveWith is like [Resolve] but reads named networks through lookup.
func ResolveWith(network string, lookup LookupFunc) (string, error) {
	network = strings.TrimSpace(network)
	if network == "" {
		return "", ErrNoNetwork
	}
	if IsEndpoint(network) {
		return network, nil
	}
	key := EnvVar(network)
	if url, ok := lookup(key); ok && strings.TrimSpace(url) != "" {
		return strings.TrimSpace(url), nil
	}
	return "", fmt.Errorf("unknown network %q: set %s to its RPC endpoint", network, key)
}

// IsEndpoint reports whether s can be dialed directly.
func IsEndpoint(s string) bool {
	lower := strings.ToLower(s)
	for _, scheme := range schemes {
		if strings.HasPrefix(lower, scheme) {
			return true
		}
	}
	return strings.HasSuffix(lower, ".ipc")
}

// EnvVar returns the environment variable holding the endpoint of the named network.
func EnvVar(name string) string {
	name = strings.ToUpper(strings.TrimSpace(name))
	name = strings.NewReplacer("-", "_", ".", "_").Replace(name)
	return EnvPrefix + name
}
