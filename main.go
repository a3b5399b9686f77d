package main

import "pms/m/internal/cli"

func main() {
	cli.Execute()
}
