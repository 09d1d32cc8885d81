package main

import "github.com/forgo/habitquest/cmd/habitquest/root"

func main() {
	root.Execute()
}
