package main

import (
	"fmt"
	"os"

	"github.com/danmuck/memstream/internal/logging"
	"github.com/danmuck/memstream/internal/observability"
)

func main() {
	logging.ConfigureRuntime()
	observability.InitLogger("streamctl")
	if err := run(os.Args[1:], os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "streamctl: %v\n", err)
		os.Exit(1)
	}
}
