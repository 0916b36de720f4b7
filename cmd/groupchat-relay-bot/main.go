package main

import (
	"os"
	"os/signal"
	"syscall"
	"time"

	log "github.com/sirupsen/logrus"
	"gopkg.in/tomb.v2"

	"groupchat-relay-bot/internal/jabber"
)

func main() {
	b := jabber.Bot{ //nolint:exhaustruct
		SigChan: make(chan os.Signal, 1),
		GTomb:   tomb.Tomb{},
	}

	log.SetFormatter(&log.TextFormatter{ //nolint:exhaustruct
		DisableQuote:           true,
		DisableLevelTruncation: false,
		DisableColors:          true,
		FullTimestamp:          true,
		TimestampFormat:        "2006-01-02 15:04:05",
	})

	if err := b.ReadConfig(); err != nil {
		log.Error(err)
		os.Exit(1)
	}

	switch b.C.Loglevel {
	case "fatal":
		log.SetLevel(log.FatalLevel)
	case "error":
		log.SetLevel(log.ErrorLevel)
	case "warn":
		log.SetLevel(log.WarnLevel)
	case "info":
		log.SetLevel(log.InfoLevel)
	case "debug":
		log.SetLevel(log.DebugLevel)
	case "trace":
		log.SetLevel(log.TraceLevel)
	default:
		log.SetLevel(log.InfoLevel)
	}

	if b.C.Log != "" {
		logfile, err := os.OpenFile(b.C.Log, os.O_WRONLY|os.O_APPEND|os.O_CREATE, 0o644)

		if err != nil {
			log.Fatalf("Unable to open log file %s: %s", b.C.Log, err)
		}

		log.SetOutput(logfile)
	}

	log.Warnf("Loglevel set to %v", log.GetLevel())

	if err := b.ReadCredentials(); err != nil {
		log.Error(err)
		os.Exit(1)
	}

	b.Log = log.StandardLogger()

	go b.SigHandler()
	signal.Notify(b.SigChan, os.Interrupt, syscall.SIGTERM, syscall.SIGQUIT)

	for {
		b.GTomb = tomb.Tomb{}

		if err := b.Connect(); err != nil {
			log.Error(err)
		} else {
			log.Error(b.GTomb.Wait())

			if b.Talk != nil {
				_ = b.Talk.Close()
			}
		}

		time.Sleep(time.Duration(b.C.Jabber.ReconnectDelayS) * time.Second)
	}
}
