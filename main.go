package main

import "github.com/frahmantamala/dashboard-portal/cmd"

func main() {
	cmd.Execute()
}
