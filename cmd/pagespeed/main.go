// Package main is the entry point for the pagespeed application
package main

import "github.com/irondsd/pagespeed/cmd"

func main() {
	cmd.Execute()
}
