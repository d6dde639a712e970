package main

import "lsudt/internal/cli"

func main() {
	cli.Execute()
}
