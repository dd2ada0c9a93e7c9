package main

import (
	"os"

	"github.com/yutawtr1214/tubesum/internal/cli"
)

func main() {
	os.Exit(cli.Main())
}
