package main

import "github.com/Tiliavir/collection-log-advisor/cmd"

func main() {
	cmd.Execute()
}
