// Command outlineflow compiles checklist outlines into reusable workflows and
// reports progress through them.
package main

import "outlineflow/internal/cli"

func main() {
	cli.Execute()
}
