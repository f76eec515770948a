package main

import "github.com/ofirgall/diffview/cmd"

func main() {
	cmd.Execute()
}
