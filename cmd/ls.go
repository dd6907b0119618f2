package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	boardnet "Whiteboard/internal/net"
)

var (
	discover        bool
	discoverTimeout time.Duration
)

var lsCmd = &cobra.Command{
	Use:   "ls",
	Short: "List saved boards, or backends on the local network with --discover",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		if discover {
			n := 0
			err := boardnet.Browse(commandContext(cmd), discoverTimeout, func(b boardnet.Backend) {
				n++
				fmt.Fprintf(out, "%-24s %s\n", b.Name, b.URL)
			})
			if err != nil {
				return err
			}
			if n == 0 {
				fmt.Fprintln(out, "No backends found.")
			}
			return nil
		}

		s, err := openStore()
		if err != nil {
			return err
		}
		infos, err := s.List(commandContext(cmd))
		if err != nil {
			return fmt.Errorf("listing boards: %w", err)
		}
		if len(infos) == 0 {
			fmt.Fprintln(out, "No saved boards.")
			return nil
		}
		for _, fi := range infos {
			image := ""
			if fi.HasImage {
				image = " +png"
			}
			fmt.Fprintf(out, "%s  %s  %4d shapes  %s%s\n",
				fi.ID, fi.Modified.Local().Format("2006-01-02 15:04"), fi.Shapes, fi.Name, image)
		}
		return nil
	},
}

func init() {
	lsCmd.Flags().BoolVar(&discover, "discover", false, "browse the network for whiteboard backends")
	lsCmd.Flags().DurationVar(&discoverTimeout, "timeout", 3*time.Second, "how long to browse with --discover")
	rootCmd.AddCommand(lsCmd)
}
