package main

import "github.com/viveksahu26/sw360sync/cmd"

func main() {
	cmd.Execute()
}
