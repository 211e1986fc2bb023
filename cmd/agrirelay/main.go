package main

import (
	"github.com/agrirelay/agrirelay/pkg/cli"
)

func main() {
	cli.Execute()
}
