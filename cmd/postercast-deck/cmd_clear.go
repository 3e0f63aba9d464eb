package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/postercast/postercast/internal/screensync"
)

var clearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Clear the room back to its idle state",
	RunE: func(cmd *cobra.Command, args []string) error {
		controller, err := screensync.NewController(newRelayClient(), room)
		if err != nil {
			return err
		}
		version, err := controller.Clear(cmd.Context())
		if err != nil {
			return err
		}
		fmt.Printf("cleared room %s (version %d)\n", room, version)
		return nil
	},
}
