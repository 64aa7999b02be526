package main

import "github.com/mj1618/webtrial/cmd"

func main() {
	cmd.Execute()
}
