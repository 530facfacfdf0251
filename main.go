package main

import (
	"context"
	"os"

	"still-gif/cmd"
)

func main() {
	if err := cmd.Cmd.Run(context.Background(), os.Args); err != nil {
		os.Exit(1)
	}
}
