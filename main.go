package main

import "chanfix/cmd"

func main() {
	cmd.Execute()
}
