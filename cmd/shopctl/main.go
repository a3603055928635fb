package main

import "github.com/jcmexdev/shop-services/cmd/shopctl/commands"

func main() {
	commands.Execute()
}
