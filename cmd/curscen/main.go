package main

import "github.com/ogulcanaydogan/cur-scenarios/internal/cli"

func main() {
	cli.Execute()
}
