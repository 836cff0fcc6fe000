package main

import "github.com/tmacey/keystash/cmd"

func main() {
	cmd.Execute()
}
