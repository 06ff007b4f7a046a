// Package rpc exposes the model as a JSON-RPC 2.0 server, speaking the
// framing of the language server protocol on stdin and stdout.
package rpc

import (
	"context"
	"os"

	"github.com/sourcegraph/jsonrpc2"
	"src.wkbench.dev/pkg/logutil"
	"src.wkbench.dev/pkg/prog"
	"src.wkbench.dev/pkg/workbench"
)

var logger = logutil.GetLogger("[rpc] ")

// Program is the JSON-RPC subprogram, run with -rpc. Its arguments are files
// to open at startup.
type Program struct{}

func (Program) Run(fds [3]*os.File, f *prog.Flags, args []string) error {
	if !f.RPC {
		return prog.ErrNotSuitable
	}
	w, err := workbench.Open(f.Config, nil)
	if err != nil {
		return err
	}
	defer w.Close()
	if err := w.OpenFiles(args); err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	s := newServer(w.Model)
	conn := jsonrpc2.NewConn(ctx,
		jsonrpc2.NewBufferedStream(transport{fds[0], fds[1]}, jsonrpc2.VSCodeObjectCodec{}),
		s.handler())
	s.bind(conn)
	logger.Println("serving")
	<-conn.DisconnectNotify()
	logger.Println("disconnected")
	return nil
}

type transport struct{ in, out *os.File }

func (c transport) Read(p []byte) (int, error)  { return c.in.Read(p) }
func (c transport) Write(p []byte) (int, error) { return c.out.Write(p) }

func (c transport) Close() error {
	if err := c.in.Close(); err != nil {
		c.out.Close()
		return err
	}
	return c.out.Close()
}
