package main

import "github.com/oshokin/build-time-include/cmd/release-gate/cmd"

func main() {
	cmd.Execute()
}
