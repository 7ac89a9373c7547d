package main

import "github.com/tessro/gong/internal/cli"

func main() {
	cli.Execute()
}
