package main

import "github.com/edgeflare/pgrst/cmd/pgrst"

func main() {
	pgrst.Main()
}
