// Command statemill validates declarative machine definitions and renders
// them as diagrams.
package main

func main() {
	Execute()
}
