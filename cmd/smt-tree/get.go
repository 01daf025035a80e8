package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <key-hex>",
		Short: "look up the leaf stored under a key in the current root",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			key, err := parseHashArg("key", args[0])
			if err != nil {
				return err
			}

			tree, closeFn, err := buildTree()
			if err != nil {
				return err
			}
			defer closeFn()

			root, err := readRoot()
			if err != nil {
				return err
			}

			leaf, ok, err := tree.Get(root, key)
			if err != nil {
				return fmt.Errorf("get failed: %w", err)
			}
			if !ok {
				return fmt.Errorf("key %x not found", key)
			}
			fmt.Printf("%x\n", leaf)
			return nil
		},
	}
}
