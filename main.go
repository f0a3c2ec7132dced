package main

import "github.com/gatehouse-sec/gatehouse/cmd"

func main() {
	cmd.Execute()
}
