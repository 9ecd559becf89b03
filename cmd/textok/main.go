package main

import "textok/internal/cli"

func main() {
	cli.Execute()
}
