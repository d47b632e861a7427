package main

import "github.com/totp-live/tui/cmd/totp-live/cmd"

func main() {
	cmd.Execute()
}
