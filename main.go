package main

import (
	cmd "github.com/rohmanhakim/mensa/internal/cli"
)

func main() {
	cmd.Execute()
}
