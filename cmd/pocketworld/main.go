package main

import (
	"github.com/mcoot/pocketworld/internal/cli"
)

func main() {
	cli.Execute()
}
