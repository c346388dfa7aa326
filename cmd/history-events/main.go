package main

import "github.com/pfrederiksen/history-events/internal/cli"

func main() {
	cli.Execute()
}
