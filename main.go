// The main package for the labelcrawler executable.
package main

import "github.com/goodbuys/labelcrawler/cmd"

func main() {
	cmd.Execute()
}
