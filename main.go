package main

import "github.com/KaramelBytes/antioquia-dashboard/cmd"

func main() {
	cmd.Execute()
}
