package main

import "github.com/mvp-joe/codespace/internal/cli"

func main() {
	cli.Execute()
}
