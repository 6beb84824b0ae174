package main

import "github.com/pders01/omnivault/cmd"

func main() {
	cmd.Execute()
}
