package main

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	slotnormalizer "github.com/baditaflorin/go_slot_normalizer"
	"github.com/baditaflorin/go_slot_normalizer/internal/app"
	"github.com/spf13/cobra"
)

func (c *cli) newTextCmd() *cobra.Command {
	var domainName string

	cmd := &cobra.Command{
		Use:   "text [utterance...]",
		Short: "Normalize an utterance, or each stdin line when none is given",
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := parseDomain(domainName)
			if err != nil {
				return err
			}
			n, err := c.normalizer()
			if err != nil {
				return err
			}
			return eachInput(cmd, args, func(s string) string {
				return n.NormalizeWith(s, nil, d)
			})
		},
	}
	cmd.Flags().StringVar(&domainName, "domain", "", "domain of the utterance (e.g. hotel, people)")
	return cmd
}

func (c *cli) newTimeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "time [text...]",
		Short: "Rewrite time expressions to HH:MM",
		RunE: func(cmd *cobra.Command, args []string) error {
			return eachInput(cmd, args, slotnormalizer.NormalizeTime)
		},
	}
}

func (c *cli) newSlotCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "slot <domain> <slot> [value...]",
		Short: "Canonicalize one slot annotation and print it as JSON",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := parseDomain(args[0])
			if err != nil {
				return err
			}
			n, err := c.normalizer()
			if err != nil {
				return err
			}

			r := n.CanonicalizeSlotValue(slotnormalizer.SlotValue{
				Domain: d,
				Slot:   args[1],
				Value:  strings.Join(args[2:], " "),
			}, nil)
			return json.NewEncoder(cmd.OutOrStdout()).Encode(r)
		},
	}
}

func (c *cli) newBatchCmd() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "batch [file]",
		Short: "Canonicalize a JSON Lines dataset read from file or stdin",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			bp, err := app.NewBatchProcessor(c.cfg, c.mapping, c.logger)
			if err != nil {
				return err
			}

			in := cmd.InOrStdin()
			if len(args) == 1 {
				f, err := os.Open(args[0])
				if err != nil {
					return fmt.Errorf("failed to open input: %w", err)
				}
				defer f.Close()
				in = f
			}

			out := cmd.OutOrStdout()
			if output != "" {
				f, err := os.Create(output)
				if err != nil {
					return fmt.Errorf("failed to create output: %w", err)
				}
				defer f.Close()
				out = f
			}

			summary, err := bp.Process(cmd.Context(), in, out)
			if err != nil {
				return err
			}

			errOut := cmd.ErrOrStderr()
			fmt.Fprintf(errOut, "lines=%d utterances=%d annotations=%d skipped=%d errors=%d time=%s\n",
				summary.Lines, summary.Utterances, summary.Annotations,
				summary.Skipped, len(summary.Errors), summary.ProcessingTime)
			for _, le := range summary.Errors {
				fmt.Fprintln(errOut, le.Error())
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default stdout)")
	return cmd
}

func parseDomain(name string) (slotnormalizer.Domain, error) {
	d, ok := slotnormalizer.ParseDomain(strings.ToLower(strings.TrimSpace(name)))
	if !ok {
		return d, fmt.Errorf("unknown domain %q", name)
	}
	return d, nil
}

// eachInput applies fn to the joined args, or to every stdin line when
// there are none, printing one result per line.
func eachInput(cmd *cobra.Command, args []string, fn func(string) string) error {
	out := cmd.OutOrStdout()
	if len(args) > 0 {
		_, err := fmt.Fprintln(out, fn(strings.Join(args, " ")))
		return err
	}

	w := bufio.NewWriter(out)
	scanner := bufio.NewScanner(cmd.InOrStdin())
	for scanner.Scan() {
		if _, err := fmt.Fprintln(w, fn(scanner.Text())); err != nil {
			return err
		}
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("failed to read input: %w", err)
	}
	return w.Flush()
}
