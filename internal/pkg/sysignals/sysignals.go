// Package sysignals converts process quit signals into errors on the
// application's fatal error channel, so that main can run a single staged
// shutdown path for signals and server failures alike.
package sysignals

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/naughtygopher/errors"
)

var ErrSigQuit = errors.New("received quit signal")

// NotifyErrorOnQuit blocks until SIGINT, SIGTERM or SIGQUIT is received and then
// pushes ErrSigQuit (wrapped with the signal name) onto fatalErr.
func NotifyErrorOnQuit(fatalErr chan<- error) {
	signals := make(chan os.Signal, 1)
	signal.Notify(signals, os.Interrupt, syscall.SIGTERM, syscall.SIGQUIT)

	sig := <-signals
	fatalErr <- errors.Wrap(ErrSigQuit, fmt.Sprintf("%v", sig))
}
