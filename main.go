package main

import "github.com/kiesman99/mapview/cmd"

func main() {
	cmd.Execute()
}
