package main

import "board-cms/cmd"

func main() {
	cmd.Execute()
}
