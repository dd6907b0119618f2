package main

import "Whiteboard/cmd"

func main() {
	cmd.Execute()
}
