package main

import (
	"github.com/debugkb/debugkb/cmd/debugkb/cli"
)

func main() {
	cli.InitAndExecute()
}
