package main

import (
	"fmt"
	"os"

	"toolmux/worker"
)

func main() {
	srv := worker.NewServer("math-server", "0.1.0", worker.MathTools{})
	if err := worker.Serve(srv); err != nil {
		fmt.Fprintf(os.Stderr, "math-server: %v\n", err)
		os.Exit(1)
	}
}
