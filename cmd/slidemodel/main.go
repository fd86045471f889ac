package main

import "github.com/VantageDataChat/GoSlideModel/internal/cli"

func main() {
	cli.Execute()
}
