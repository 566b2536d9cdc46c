package main

import (
	"github.com/spf13/cobra"

	"github.com/ondrejk/taskwell/internal/tui"
)

var dashboardCmd = &cobra.Command{
	Use:     "dashboard",
	Aliases: []string{"tui"},
	Short:   "Open the interactive task dashboard",
	RunE:    runDashboard,
}

func runDashboard(cmd *cobra.Command, args []string) error {
	ring, err := openKeyring()
	if err != nil {
		return err
	}
	defer ring.Close()

	client := newClient(ring)
	if err := requireAuth(ring, client); err != nil {
		return err
	}

	return tui.New(newStore(client)).Run()
}
