package main

import "cookieaudit/internal/cli"

func main() {
	cli.Execute()
}
