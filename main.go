// Command daytrack is a terminal time tracker for daily tasks.
package main

import "github.com/twiced-technology-gmbh/daytrack/cmd"

func main() {
	cmd.Execute()
}
