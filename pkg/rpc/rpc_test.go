package rpc

import (
	"fmt"
	"path/filepath"
	"strings"
	"testing"

	"src.wkbench.dev/pkg/prog/progtest"
	"src.wkbench.dev/pkg/testutil"
)

func frame(msgs ...string) string {
	var sb strings.Builder
	for _, msg := range msgs {
		fmt.Fprintf(&sb, "Content-Length: %d\r\n\r\n%s", len(msg), msg)
	}
	return sb.String()
}

func TestProgram(t *testing.T) {
	dir := testutil.TempDir(t)
	noConfig := filepath.Join(dir, "none.yaml")

	progtest.Test(t, Program{},
		progtest.ThatWkbench("-rpc", "-config", noConfig).
			WithStdin(frame(`{"jsonrpc":"2.0","id":1,"method":"session/submit","params":{"text":"1+1"}}`)).
			WritesStdoutContaining(`"result":{"output":"2"}`),
		progtest.ThatWkbench("-rpc", "-config", noConfig, filepath.Join(dir, "missing.js")).
			ExitsWith(2).
			WritesStderrContaining("missing.js"),
		progtest.ThatWkbench().
			ExitsWith(2).
			WritesStderr("internal error: no suitable subprogram\n"),
	)
}
