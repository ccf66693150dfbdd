package main

import "coinquest/cmd/cq/root"

func main() {
	root.Execute()
}
