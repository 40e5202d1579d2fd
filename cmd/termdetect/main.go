// Command termdetect identifies the terminal emulator it is running in.
package main

import (
	"os"

	"github.com/Dicklesworthstone/termdetect/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
