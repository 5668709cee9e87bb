package main

import "github.com/jfuerlinger/DrugManagement/internal/cli"

func main() {
	cli.Execute()
}
