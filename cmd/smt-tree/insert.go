package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newInsertCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "insert <key-hex> <leaf-hex>",
		Short: "insert a key/leaf pair, updating the root file",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			key, err := parseHashArg("key", args[0])
			if err != nil {
				return err
			}
			leaf, err := parseHashArg("leaf", args[1])
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

			newRoot, err := tree.Insert(root, key, leaf)
			if err != nil {
				return fmt.Errorf("insert failed: %w", err)
			}
			if err := writeRoot(newRoot); err != nil {
				return err
			}
			fmt.Printf("%x\n", *newRoot)
			return nil
		},
	}
}
