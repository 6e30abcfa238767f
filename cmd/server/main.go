package main

import (
	"github.com/edaxe/furniture-app/cmd"
)

func main() {
	cmd.Execute()
}
