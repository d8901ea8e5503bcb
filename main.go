// ghaflow generates GitHub Actions workflows from typed Go values.
//
// Workflows are built with the models package, rendered with codec and
// written or verified with generate. The ghaflow command wires the bundled
// presets and the workflows described in .ghaflow.yml to the generator.
package main

import (
	"github.com/opnlabs/ghaflow/cmd/ghaflow"
)

func main() {
	ghaflow.Execute()
}
