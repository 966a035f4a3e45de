package main

import "feuerwehr-web/pkg/cli"

func main() {
	cli.Execute()
}
