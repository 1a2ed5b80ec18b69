package main

import "github.com/gogpu/spvgen/cmd/spvgen/internal/command"

func main() {
	command.Execute()
}
