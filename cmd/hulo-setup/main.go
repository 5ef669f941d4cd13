package main

import "github.com/hulo-lang/hulo-npm/cmd/hulo-setup/cmd"

func main() {
	cmd.Execute()
}
