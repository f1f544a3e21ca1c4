package main

import (
	"github.com/cloudbulkupload/cloudbulk-go/cmd"
)

func main() {
	cmd.Execute()
}
