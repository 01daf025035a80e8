package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newRemoveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "remove <key-hex>",
		Short: "remove a key, updating the root file",
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

			newRoot, err := tree.Remove(root, key)
			if err != nil {
				return fmt.Errorf("remove failed: %w", err)
			}
			if err := writeRoot(newRoot); err != nil {
				return err
			}
			if newRoot == nil {
				fmt.Println("(empty)")
				return nil
			}
			fmt.Printf("%x\n", *newRoot)
			return nil
		},
	}
}
