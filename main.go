package main

import "github.com/devicelab-dev/patrol-runner/pkg/cli"

func main() {
	cli.Execute()
}
