// Wkbench is the backend of a small teaching IDE: it keeps the open documents,
// drives an external compiler and runs an interactive session. It is used
// either directly from a terminal or as a JSON-RPC server for an editor.
package main

import (
	"os"

	"src.wkbench.dev/pkg/buildinfo"
	"src.wkbench.dev/pkg/prog"
	"src.wkbench.dev/pkg/repl"
	"src.wkbench.dev/pkg/rpc"
)

func main() {
	os.Exit(prog.Run(
		[3]*os.File{os.Stdin, os.Stdout, os.Stderr}, os.Args,
		prog.Composite(buildinfo.Program{}, rpc.Program{}, repl.Program{})))
}
