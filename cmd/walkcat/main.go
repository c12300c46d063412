// Command walkcat catalogues web-archive collections and their seeds.
package main

import "github.com/mesh-intelligence/walkcat/internal/cli"

func main() {
	cli.Execute()
}
