package main

import "eventsupply_backend/internal/app"

func main() {
	app.Run()
}
