package main

import "github.com/hapfel1/fromsoft-troubleshooter/cmd"

func main() {
	cmd.Execute()
}
