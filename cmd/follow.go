package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"Whiteboard/internal/export"
	boardnet "Whiteboard/internal/net"
)

var (
	followOut    string
	followFrames int
)

// feedURL accepts a websocket feed URL as is and turns a backend API URL
// into the URL of its save feed.
func feedURL(arg string) string {
	if strings.HasPrefix(arg, "ws://") || strings.HasPrefix(arg, "wss://") {
		return arg
	}
	return boardnet.FeedURL(arg)
}

var followCmd = &cobra.Command{
	Use:   "follow <feed-url | backend-url>",
	Short: "Watch a shared board or a backend's saves",
	Long: `follow connects to the live feed of a board started with --share, or to
the save feed of a backend, and prints every frame. With --output each board
snapshot is also written to that file as PNG, PDF or SVG.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if followOut != "" {
			if _, err := export.FormatOf(followOut); err != nil {
				return err
			}
		}
		ctx, stop := signal.NotifyContext(commandContext(cmd), os.Interrupt, syscall.SIGTERM)
		defer stop()
		ctx, cancel := context.WithCancel(ctx)
		defer cancel()

		out := cmd.OutOrStdout()
		opts := export.Options{Width: cfg.CanvasWidth, Height: cfg.CanvasHeight, Background: "#ffffff"}
		frames := 0
		var writeErr error
		err := boardnet.Follow(ctx, feedURL(args[0]), func(m boardnet.Message) {
			if m.Type == boardnet.TypeSaved && m.File != nil {
				fmt.Fprintf(out, "saved %s (%s, %d shapes)\n", m.File.Name, m.File.ID, m.File.Shapes)
				return
			}
			if m.Type != boardnet.TypeSnapshot {
				return
			}
			fmt.Fprintf(out, "revision %d: %d shapes\n", m.Revision, len(m.Shapes))
			if followOut != "" {
				if err := export.WriteFile(followOut, m.Shapes, opts); err != nil {
					writeErr = err
					cancel()
					return
				}
			}
			frames++
			if followFrames > 0 && frames >= followFrames {
				cancel()
			}
		})
		if err != nil {
			return err
		}
		return writeErr
	},
}

func init() {
	followCmd.Flags().StringVarP(&followOut, "output", "o", "", "write each snapshot to this file")
	followCmd.Flags().IntVar(&followFrames, "frames", 0, "stop after this many snapshots, 0 follows until interrupted")
	rootCmd.AddCommand(followCmd)
}
