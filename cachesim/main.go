// Command cachesim simulates a cache hierarchy on a list of memory requests.
package main

import "github.com/sarchlab/cachesim/cachesim/cmd"

func main() {
	cmd.Execute()
}
