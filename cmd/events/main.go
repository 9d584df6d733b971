package main

import (
	"log"

	"github.com/kennedyongogo/tuvibe/cmd/events/cmd"
)

func main() {
	err := cmd.Execute()
	if err != nil {
		log.Fatal(err)
	}
}
