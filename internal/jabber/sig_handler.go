package jabber

import (
	"os"
	"syscall"

	log "github.com/sirupsen/logrus"
)

// SigHandler waits for SIGINT/SIGTERM/SIGQUIT and performs the graceful
// shutdown path: a synchronous save, then a hard exit.
// It never returns.
func (b *Bot) SigHandler() {
	log.Debug("Installing signal handler")

	for s := range b.SigChan {
		switch s {
		case syscall.SIGINT:
			log.Infoln("Got SIGINT, quitting")
		case syscall.SIGTERM:
			log.Infoln("Got SIGTERM, quitting")
		case syscall.SIGQUIT:
			log.Infoln("Got SIGQUIT, quitting")
		default:
			continue
		}

		if b.Persister != nil {
			b.Persister.SaveStateIfChanged()
		}

		os.Exit(0)
	}
}
