package main

import "github.com/ndkhanh/xcpatch/cmd"

func main() {
	cmd.Execute()
}
