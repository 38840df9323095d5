package main

import "github.com/RouteBytes/synthese-cli/cmd"

func main() {
	cmd.Execute()
}
