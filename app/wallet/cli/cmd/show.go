package cmd

import (
	"fmt"
	"log"
	"time"

	"github.com/ardanlabs/blogchain/foundation/blockchain/ledger"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/spf13/cobra"
)

var limit int

var showCmd = &cobra.Command{
	Use:   "show [authority]",
	Short: "Print the blog record of an authority, yours by default",
	Args:  cobra.MaximumNArgs(1),
	Run:   showRun,
}

var historyCmd = &cobra.Command{
	Use:   "history [record]",
	Short: "Print past posts and bios of a record, yours by default",
	Args:  cobra.MaximumNArgs(1),
	Run:   historyRun,
}

func init() {
	rootCmd.AddCommand(showCmd)
	rootCmd.AddCommand(historyCmd)
	historyCmd.Flags().IntVarP(&limit, "limit", "l", 100, "Number of entries to print.")
}

func showRun(cmd *cobra.Command, args []string) {
	authority := ""
	if len(args) == 1 {
		authority = args[0]
	} else {
		authority = string(walletAddress())
	}

	rec, err := newClient(url).recordOf(authority)
	if err != nil {
		log.Fatal(err)
	}

	fmt.Println("Record:   ", rec.Address)
	fmt.Println("Authority:", rec.AuthorityName)
	fmt.Println("Bio:      ", rec.Bio)
	fmt.Println("Post:     ", rec.LatestPost)
}

func historyRun(cmd *cobra.Command, args []string) {
	c := newClient(url)

	address := ""
	if len(args) == 1 {
		address = args[0]
	} else {
		rec, err := c.recordOf(string(walletAddress()))
		if err != nil {
			log.Fatal(err)
		}
		address = string(rec.Address)
	}

	entries, err := c.history(address, limit)
	if err != nil {
		log.Fatal(err)
	}

	for _, e := range entries {
		ts := time.UnixMilli(int64(e.TimeStamp)).UTC().Format(time.RFC3339)
		fmt.Printf("%6d %s %-4s %s\n", e.Slot, ts, e.Field, e.Text)
	}
}

func walletAddress() ledger.Address {
	privateKey, err := crypto.LoadECDSA(getPrivateKeyPath())
	if err != nil {
		log.Fatal(err)
	}

	return ledger.PublicKeyToAddress(privateKey.PublicKey)
}
