package main

import "github.com/theirongolddev/messmate/cmd"

func main() {
	cmd.Execute()
}
