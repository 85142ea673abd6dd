package main

import "github.com/ardanlabs/blogchain/app/wallet/cli/cmd"

func main() {
	cmd.Execute()
}
