package main

import (
	"os"

	"github.com/Arslanex/CurFusion/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
