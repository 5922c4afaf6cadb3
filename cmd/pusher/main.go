package main

import (
	"os"

	"github.com/solatis/pusher-rest/cmd/pusher/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
