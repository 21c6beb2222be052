package main

import "github.com/funvibe/lamb/pkg/cli"

func main() {
	cli.Run()
}
