package main

import (
	"os"

	"hitcounter/cmd/report/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
