package main

import (
	"context"

	"modparts/cmd"
)

func main() {
	cmd.Execute(context.Background())
}
