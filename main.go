package main

import "github.com/jjenkins/econsult/cmd"

func main() {
	cmd.Execute()
}
