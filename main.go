package main

import "github.com/moyoez/ganymede-go/cmd"

func main() {
	cmd.Execute()
}
