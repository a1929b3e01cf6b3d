package main

import cmd "github.com/kerbaras/vnforge/cmd/vnforge"

func main() {
	cmd.Execute()
}
