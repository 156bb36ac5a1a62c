package main

import (
	"aidigest/cmd"
	"aidigest/internal/logger"
)

func main() {
	logger.Init()
	cmd.Execute()
}
