package harness

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"
)

var forwarded = []os.Signal{syscall.SIGINT, syscall.SIGTERM, syscall.SIGHUP}

// ForwardSignals relays interrupts to the child so that the child, not
// beamsim, decides when to exit; preset teardown then runs once it has.
// The returned function stops relaying and waits for the relay goroutine.
func ForwardSignals(ctx context.Context, process *os.Process, log zerolog.Logger) func() {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, forwarded...)

	done := make(chan struct{})
	finished := make(chan struct{})

	go func() {
		defer close(finished)
		for {
			select {
			case sig := <-sigs:
				relay(process, sig, log)
			case <-done:
				return
			case <-ctx.Done():
				return
			}
		}
	}()

	return func() {
		signal.Stop(sigs)
		close(done)
		<-finished
	}
}

func relay(process *os.Process, sig os.Signal, log zerolog.Logger) {
	log.Debug().Stringer("signal", sig).Int("pid", process.Pid).Msg("forwarding signal")

	if err := process.Signal(sig); err != nil && !errors.Is(err, os.ErrProcessDone) {
		log.Warn().Err(err).Stringer("signal", sig).Int("pid", process.Pid).Msg("forwarding signal failed")
	}
}
