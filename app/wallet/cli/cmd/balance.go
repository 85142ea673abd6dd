package cmd

import (
	"fmt"
	"log"

	"github.com/ardanlabs/blogchain/foundation/blockchain/ledger"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/spf13/cobra"
)

var balanceCmd = &cobra.Command{
	Use:   "balance",
	Short: "Print your balance.",
	Run:   balanceRun,
}

func init() {
	rootCmd.AddCommand(balanceCmd)
}

func balanceRun(cmd *cobra.Command, args []string) {
	privateKey, err := crypto.LoadECDSA(getPrivateKeyPath())
	if err != nil {
		log.Fatal(err)
	}

	address := ledger.PublicKeyToAddress(privateKey.PublicKey)
	fmt.Println("For Account:", address)

	acct, err := newClient(url).account(address)
	if err != nil {
		log.Fatal(err)
	}

	fmt.Println(acct.Balance)
}
