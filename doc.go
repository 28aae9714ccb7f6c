// Package cli composes independently defined command modules into a single command tree and
// dispatches an argument vector to the handler registered at the matching node.
//
// A [Module] builds its own [Command] subtree without knowing about the root. A [Builder] mounts
// each module under a unique top-level name and finalizes the tree once. [Parse] walks the
// arguments against the finalized tree, and [Run] invokes the handler bound to the node that was
// reached, or prints help when the node only groups subcommands.
package cli
