package main

import "back2u-backend/cmd"

func main() {
	cmd.Run()
}
