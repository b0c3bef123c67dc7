package main

import "github.com/dhiraj-001/MLM-sub000/cmd"

func main() {
	cmd.Execute()
}
