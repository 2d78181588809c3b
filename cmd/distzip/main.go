package main

import "distzip/internal/cli"

// version is set via ldflags at build time: -ldflags "-X main.version=x.y.z"
var version = "dev"

func main() {
	cli.New(version).Run()
}
