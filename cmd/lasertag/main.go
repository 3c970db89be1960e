package main

import "github.com/mcoot/lasertag/internal/cli"

func main() {
	cli.Execute()
}
