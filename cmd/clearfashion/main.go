package main

import "github.com/quentin418/clear-fashion/cmd"

func main() {
	cmd.Execute()
}
