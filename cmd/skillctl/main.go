package main

import "skillmates-backend/internal/cli"

func main() {
	cli.Execute()
}
