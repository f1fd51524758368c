package main

import "github.com/atdiar/regionui/cmd/regionui/cmd"

func main() {
	cmd.Execute()
}
