package main

import "github.com/Tiliavir/stress-proof-tracker/cmd"

func main() {
	cmd.Execute()
}
