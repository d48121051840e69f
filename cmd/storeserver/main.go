package main

import (
	"os"
	"os/signal"

	"github.com/google/gops/agent"
	"github.com/nicolagi/verbstore/fixture/server"
	"github.com/nicolagi/verbstore/storage"
	log "github.com/sirupsen/logrus"
)

func main() {
	if err := agent.Listen(agent.Options{}); err != nil {
		log.WithField("err", err).Warn("Could not start gops agent")
	} else {
		defer agent.Close()
	}

	srv := server.New(
		server.WithAddress(server.DefaultAddress),
		server.WithStore(storage.NewInMemoryStore()),
	)
	addr, err := srv.Listen()
	if err != nil {
		log.WithFields(log.Fields{
			"err":  err,
			"addr": server.DefaultAddress,
		}).Fatal("Could not listen")
	}
	log.WithFields(log.Fields{"addr": addr}).Info("Listening")

	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt)
	go func() {
		sig := <-c
		log.WithField("signal", sig).Info("Shutting down server")
		if err := srv.Shutdown(); err != nil {
			log.WithFields(log.Fields{"err": err}).Warn("Could not shut down the server cleanly")
		}
	}()

	if err := srv.Serve(); err != nil {
		log.Error(err)
	}
}
