package cmd

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	boardnet "Whiteboard/internal/net"
	"Whiteboard/internal/store"
)

var (
	listenAddr string
	advertise  bool
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the storage backend boards save to and load from",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if cmd.Flags().Changed("addr") {
			cfg.ListenAddr = listenAddr
		}
		if cmd.Flags().Changed("advertise") {
			cfg.Advertise = &advertise
		}

		d, err := store.NewDisk(cfg.SaveDir)
		if err != nil {
			return fmt.Errorf("opening save directory: %w", err)
		}
		ctx, stop := signal.NotifyContext(commandContext(cmd), os.Interrupt, syscall.SIGTERM)
		defer stop()

		fmt.Fprintf(cmd.OutOrStdout(), "Serving boards from %s\n", d.Dir())
		return boardnet.NewServer(d).Run(ctx, cfg.ListenAddr, cfg.ShouldAdvertise())
	},
}

func init() {
	serveCmd.Flags().StringVar(&listenAddr, "addr", "", "listen address (overrides config)")
	serveCmd.Flags().BoolVar(&advertise, "advertise", false, "announce the backend over mDNS")
	rootCmd.AddCommand(serveCmd)
}
