package main

import (
	"context"
	"errors"
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/postercast/postercast/internal/screensync"
)

var watchInterval time.Duration

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Follow a room the way a presentation screen would",
	Long: `Watch polls the room and prints every state transition: presented
abstracts, clears, and relay connectivity changes. Stop with Ctrl-C.`,
	RunE: runWatch,
}

func init() {
	watchCmd.Flags().DurationVar(&watchInterval, "interval", 2*time.Second, "poll interval")
}

func runWatch(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	presenter, err := screensync.NewPresenter(newRelayClient(), screensync.PresenterOptions{
		Room:     room,
		Interval: watchInterval,
		Logger:   printfLogger{},
		OnUpdate: printUpdate,
	})
	if err != nil {
		return err
	}

	fmt.Printf("watching room %s\n", room)
	if err := presenter.Run(ctx); !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}

func printUpdate(u screensync.Update) {
	if u.State == nil {
		fmt.Printf("status: %s\n", u.Status)
		return
	}
	if u.State.Payload == nil {
		fmt.Printf("version %d: cleared\n", u.State.Version)
		return
	}
	p := u.State.Payload
	fmt.Printf("version %d: %s by %s (%s)\n", u.State.Version, p.Title, p.Author, p.ID)
}

type printfLogger struct{}

func (printfLogger) Printf(format string, args ...any) {
	fmt.Printf(format+"\n", args...)
}
