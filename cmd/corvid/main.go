// Command corvid runs the engine's text protocol loop over stdin/stdout.
package main

import (
	"os"

	"github.com/algerbrex/corvid/protocol"
)

func main() {
	driver := protocol.NewDriver(os.Stdout)
	driver.Run(os.Stdin)
}
