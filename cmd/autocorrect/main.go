package main

import "autocorrect/internal/cli"

func main() {
	cli.Execute()
}
