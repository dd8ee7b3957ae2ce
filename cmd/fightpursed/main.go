package main

import "github.com/fightpurse/fightpursed/internal/cli"

func main() {
	cli.Execute()
}
