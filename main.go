package main

import (
	"os"

	"github.com/AnyUserName/icns2ico/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
