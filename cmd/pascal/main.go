package main

import "github.com/hubailmm/pascal/cmd/pascal/cmd"

func main() {
	cmd.Execute()
}
