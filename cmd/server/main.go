package main

import "samovar/internal/cmd"

func main() {
	cmd.Execute()
}
