package main

import "github.com/julienpequegnot/sentimon/cmd"

func main() {
	cmd.Execute()
}
