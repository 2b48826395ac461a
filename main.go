/*
Copyright © 2026 NAME HERE <EMAIL ADDRESS>
*/
package main

import "github.com/colorboard/apiserver/cmd"

func main() {
	cmd.Execute()
}
