package cmd

import (
	"fmt"
	"log"

	"github.com/ardanlabs/blogchain/foundation/blockchain/instruction"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/spf13/cobra"
)

var (
	bio    string
	target string
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create your blog record",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		write(instruction.KindInitialize, "", bio)
	},
}

var postCmd = &cobra.Command{
	Use:   "post <text>",
	Short: "Replace the latest post of your blog",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		write(instruction.KindUpdatePost, target, args[0])
	},
}

var bioCmd = &cobra.Command{
	Use:   "bio <text>",
	Short: "Replace the bio of your blog",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		write(instruction.KindUpdateBio, target, args[0])
	},
}

func init() {
	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(postCmd)
	rootCmd.AddCommand(bioCmd)
	initCmd.Flags().StringVarP(&bio, "bio", "b", "", "Bio to start the blog with.")
	postCmd.Flags().StringVarP(&target, "record", "r", "", "Record address to write to. Defaults to your own record.")
	bioCmd.Flags().StringVarP(&target, "record", "r", "", "Record address to write to. Defaults to your own record.")
}

func write(kind instruction.Kind, account string, text string) {
	privateKey, err := crypto.LoadECDSA(getPrivateKeyPath())
	if err != nil {
		log.Fatal(err)
	}

	rcpt, err := newClient(url).submit(privateKey, kind, account, []byte(text))
	if err != nil {
		log.Fatal(err)
	}

	fmt.Printf("slot %d signature %s\n", rcpt.Slot, rcpt.Signature)
	for _, line := range rcpt.Logs {
		fmt.Println("Program log:", line)
	}
}
