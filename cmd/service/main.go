package main

import (
	"os"

	"freightcarbon/internal/app"
)

func main() {
	application := app.New()
	os.Exit(application.Run())
}
