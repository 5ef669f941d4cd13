package main

import "github.com/hulo-lang/hulo-npm/cmd/hulo-fetch/cmd"

func main() {
	cmd.Execute()
}
