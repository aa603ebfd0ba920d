package main

import "github.com/connset/connset/cmd/connset/cmd"

func main() {
	cmd.Execute()
}
