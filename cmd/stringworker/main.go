package main

import (
	"fmt"
	"os"

	"toolmux/worker"
)

func main() {
	srv := worker.NewServer("string-server", "0.1.0", worker.StringTools{})
	if err := worker.Serve(srv); err != nil {
		fmt.Fprintf(os.Stderr, "string-server: %v\n", err)
		os.Exit(1)
	}
}
