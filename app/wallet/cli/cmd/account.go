package cmd

import (
	"fmt"
	"log"

	"github.com/ardanlabs/blogchain/business/core/blog"
	"github.com/ardanlabs/blogchain/foundation/blockchain/ledger"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/spf13/cobra"
)

var accountCmd = &cobra.Command{
	Use:   "account",
	Short: "Print the address and blog record address for the wallet",
	Run:   accountRun,
}

func init() {
	rootCmd.AddCommand(accountCmd)
}

func accountRun(cmd *cobra.Command, args []string) {
	privateKey, err := crypto.LoadECDSA(getPrivateKeyPath())
	if err != nil {
		log.Fatal(err)
	}

	address := ledger.PublicKeyToAddress(privateKey.PublicKey)
	fmt.Println("Address:", address)
	fmt.Println("Record: ", blog.RecordAddress(address))
}
