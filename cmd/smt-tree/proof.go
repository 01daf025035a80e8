package main

import (
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/dapperwick/bitsmt/config"
	"github.com/dapperwick/bitsmt/storage/merkle"
)

func newProofCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "proof <key-hex>",
		Short: "generate an inclusion proof for a key against the current root, printed as one dir:hexcut step per line",
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

			proof, err := tree.GetMerkleProof(root, key)
			if err != nil {
				return fmt.Errorf("proof generation failed: %w", err)
			}
			if proof == nil {
				return fmt.Errorf("key %x not found, no proof to generate", key)
			}
			for _, step := range *proof {
				dir := "0"
				if step.Right {
					dir = "1"
				}
				fmt.Printf("%s:%s\n", dir, hex.EncodeToString(step.Cut))
			}
			return nil
		},
	}
}

func newVerifyCmd() *cobra.Command {
	var hasherName string

	cmd := &cobra.Command{
		Use:   "verify <root-hex> <leaf-hex> <step1> [step2...]",
		Short: "verify an inclusion proof against a root and leaf, given proof steps as dir:hexcut",
		Args:  cobra.MinimumNArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			root, err := parseHashArg("root", args[0])
			if err != nil {
				return err
			}
			leaf, err := parseHashArg("leaf", args[1])
			if err != nil {
				return err
			}

			proof, err := parseProofSteps(args[2:])
			if err != nil {
				return err
			}

			var hasher merkle.Hasher
			switch config.HasherKind(hasherName) {
			case config.HasherBlake2b:
				hasher = merkle.NewBlake2bHasher()
			case config.HasherSHA3:
				hasher = merkle.NewSHA3Hasher()
			default:
				return fmt.Errorf("unknown --hasher %q", hasherName)
			}

			ok := merkle.VerifyProof(hasher, &root, leaf, proof)
			if !ok {
				return fmt.Errorf("proof does not verify")
			}
			fmt.Println("ok")
			return nil
		},
	}
	cmd.Flags().StringVar(&hasherName, "hasher", string(config.HasherBlake2b), "hash function the proof was generated with: blake2b or sha3")
	return cmd
}

func parseProofSteps(args []string) (*merkle.Proof, error) {
	proof := make(merkle.Proof, 0, len(args))
	for _, arg := range args {
		parts := strings.SplitN(arg, ":", 2)
		if len(parts) != 2 {
			return nil, fmt.Errorf("malformed proof step %q: expected dir:hexcut", arg)
		}
		right := parts[0] == "1"
		cut, err := hex.DecodeString(parts[1])
		if err != nil {
			return nil, fmt.Errorf("malformed proof step %q: %w", arg, err)
		}
		proof = append(proof, merkle.ProofStep{Right: right, Cut: cut})
	}
	return &proof, nil
}
