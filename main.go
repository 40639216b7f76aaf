package main

import "github.com/tierkv/tierkv/cmd"

func main() {
	cmd.Execute()
}
