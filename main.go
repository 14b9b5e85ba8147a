package main

import "github.com/usnistgov/oar-customer-service/cmd"

func main() {
	cmd.Execute()
}
