package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/gamestringer/gsbridge/internal/protocol"
	"github.com/gamestringer/gsbridge/internal/shmring"
)

func newStatsCmd() *cobra.Command {
	var shmName string
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Read live counters from a running bridge's shared memory",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runStats(cmd, shmName)
		},
		Args:         cobra.NoArgs,
		SilenceUsage: true,
	}

	cmd.SetUsageTemplate(subcommandUsageTemplate)
	cmd.Flags().StringVar(&shmName, "shm-name", "gsbridge", "Shared memory region name")
	return cmd
}

func runStats(cmd *cobra.Command, shmName string) error {
	// Mapping just the header is enough to read the mirrored counters.
	region, err := shmring.OpenShmRegion(shmName, protocol.HeaderSize, false)
	if err != nil {
		return fmt.Errorf("no bridge found at %q: %w", shmName, err)
	}
	defer region.Close()

	header, err := protocol.DecodeHeader(region.Bytes())
	if err != nil {
		return err
	}
	if !header.Valid() {
		return fmt.Errorf("shared memory %q does not hold a translation bridge buffer", shmName)
	}

	out := cmd.OutOrStdout()
	active := "no"
	if header.ServerActive {
		active = "yes"
	}
	fmt.Fprintf(out, "Region:         %s\n", shmName)
	fmt.Fprintf(out, "Protocol:       v%d, %d slots\n", header.Version, header.SlotCount)
	fmt.Fprintf(out, "Server active:  %s\n", active)
	fmt.Fprintf(out, "Total requests: %d\n", header.TotalRequests)
	fmt.Fprintf(out, "Cache hits:     %d\n", header.CacheHits)
	fmt.Fprintf(out, "Cache misses:   %d\n", header.CacheMisses)
	if header.TotalRequests > 0 {
		rate := float64(header.CacheHits) / float64(header.TotalRequests) * 100
		fmt.Fprintf(out, "Hit rate:       %.1f%%\n", rate)
	}
	return nil
}
