package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/dapperwick/bitsmt/storage/merkle"
)

func newBatchInsertCmd() *cobra.Command {
	var collectAll bool

	cmd := &cobra.Command{
		Use:   "batch-insert",
		Short: "insert many key/leaf pairs read from stdin, one key:leaf hex pair per line",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			keys, leaves, err := readPairs(os.Stdin)
			if err != nil {
				return err
			}
			if len(keys) == 0 {
				return fmt.Errorf("no key:leaf pairs given on stdin")
			}

			mode := merkle.AbortOnFirst
			if collectAll {
				mode = merkle.CollectAll
			}

			tree, closeFn, err := buildTree(merkle.WithBatchErrorMode(mode))
			if err != nil {
				return err
			}
			defer closeFn()

			root, err := readRoot()
			if err != nil {
				return err
			}

			newRoot, err := tree.Inserts(root, keys, leaves)
			if err != nil {
				return fmt.Errorf("batch insert failed: %w", err)
			}
			if err := writeRoot(newRoot); err != nil {
				return err
			}
			fmt.Printf("%x\n", *newRoot)
			return nil
		},
	}
	cmd.Flags().BoolVar(&collectAll, "collect-all-errors", false, "keep applying the remaining pairs after one fails, instead of aborting on the first error")
	return cmd
}

// readPairs parses "key:leaf" hex lines off r, one pair per line, skipping
// blank lines.
func readPairs(r *os.File) (keys, leaves []merkle.Hash, err error) {
	scanner := bufio.NewScanner(r)
	line := 0
	for scanner.Scan() {
		line++
		text := strings.TrimSpace(scanner.Text())
		if text == "" {
			continue
		}
		parts := strings.SplitN(text, ":", 2)
		if len(parts) != 2 {
			return nil, nil, fmt.Errorf("line %d: malformed pair %q: expected key:leaf", line, text)
		}
		key, err := parseHashArg("key", parts[0])
		if err != nil {
			return nil, nil, fmt.Errorf("line %d: %w", line, err)
		}
		leaf, err := parseHashArg("leaf", parts[1])
		if err != nil {
			return nil, nil, fmt.Errorf("line %d: %w", line, err)
		}
		keys = append(keys, key)
		leaves = append(leaves, leaf)
	}
	if err := scanner.Err(); err != nil {
		return nil, nil, fmt.Errorf("failed to read stdin: %w", err)
	}
	return keys, leaves, nil
}
