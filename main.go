package main

import "github.com/atomloop/sweep/cmd"

func main() {
	cmd.Execute()
}
