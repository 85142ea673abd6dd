package cmd

import (
	"fmt"
	"log"

	"github.com/ardanlabs/blogchain/foundation/nameservice"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/spf13/cobra"
)

var (
	to    string
	value uint64
)

// sendCmd represents the send command
var sendCmd = &cobra.Command{
	Use:   "send",
	Short: "Send value to another account",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		privateKey, err := crypto.LoadECDSA(getPrivateKeyPath())
		if err != nil {
			log.Fatal(err)
		}

		// Names are the key files kept next to the wallet's own key.
		ns, err := nameservice.New(accountPath)
		if err != nil {
			log.Fatal(err)
		}

		address, err := ns.Resolve(to)
		if err != nil {
			log.Fatal(err)
		}

		rcpt, err := newClient(url).transfer(privateKey, address, value)
		if err != nil {
			log.Fatal(err)
		}

		fmt.Printf("slot %d signature %s\n", rcpt.Slot, rcpt.Signature)
		for _, line := range rcpt.Logs {
			fmt.Println("Program log:", line)
		}
	},
}

func init() {
	rootCmd.AddCommand(sendCmd)
	sendCmd.Flags().StringVarP(&to, "to", "t", "", "Account name or address to send to.")
	sendCmd.Flags().Uint64VarP(&value, "value", "v", 0, "Value to send.")
	sendCmd.MarkFlagRequired("to")
	sendCmd.MarkFlagRequired("value")
}
