package main

import "github.com/aqasim81/database-bootstrap-engine/internal/cli"

func main() {
	cli.Execute()
}
