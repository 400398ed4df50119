package main

import "github.com/spidersno1/job-accelerator/cmd"

func main() {
	cmd.Execute()
}
