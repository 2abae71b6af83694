package main

import (
	cmd "github.com/velara/bookbind/cmd/bookbind"
)

func main() {
	cmd.Execute()
}
