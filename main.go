package main

import "github.com/rahadianw/siteops/cmd"

func main() {
	cmd.Execute()
}
