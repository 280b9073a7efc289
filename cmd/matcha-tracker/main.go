package main

import (
	"github.com/sirupsen/logrus"

	"github.com/thereayou/matcha-tracker/cmd/server"
)

func main() {
	srv, err := server.NewServer()
	if err != nil {
		logrus.Fatalf("Server init failed: %v", err)
	}
	if err := srv.Run(); err != nil {
		srv.Log.Fatalf("Server run error: %v", err)
	}
}
