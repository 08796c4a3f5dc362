package main

import "github.com/papapumpkin/apogee/cmd"

func main() {
	cmd.Execute()
}
