package main

import "autobro/dromru/cmd"

func main() {
	cmd.Execute()
}
