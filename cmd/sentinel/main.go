package main

import "github.com/shopmetrics/sentinel/internal/cli"

func main() {
	cli.Execute()
}
