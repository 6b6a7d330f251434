package main

import "github.com/jjtimmons/oligo/cmd"

func main() {
	cmd.Execute() // initialize cobra commands
}
