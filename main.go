package main

import "github.com/naka-gawa/top-langs/cmd"

func main() {
	cmd.Execute()
}
