package main

import "github.com/fjell-hpc/jobrecap/internal/cmd"

func main() {
	cmd.Execute()
}
