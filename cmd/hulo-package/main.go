package main

import "github.com/hulo-lang/hulo-npm/cmd/hulo-package/cmd"

func main() {
	cmd.Execute()
}
