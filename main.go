package main

import (
	"github.com/greenlens/greenlens/cmd"
)

func main() {
	cmd.Execute()
}
