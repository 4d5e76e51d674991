package main

import (
	log "github.com/sirupsen/logrus"

	"virushunt/internal/server"
)

func main() {
	if err := server.Run(); err != nil {
		log.Fatal(err.Error())
	}
}
