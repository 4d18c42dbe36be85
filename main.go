package main

import "item-service.com/item-service/cmd"

func main() {
	cmd.Execute()
}
