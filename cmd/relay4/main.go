// Command relay4 controls stackable 4-relay/4-input expansion cards over I2C.
package main

import "github.com/openrelaylab/relay4/cmd/relay4/cmd"

func main() {
	cmd.Execute()
}
