// This program performs administrative tasks against a ledger database.
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/ardanlabs/blogchain/app/tooling/admin/commands"
	"github.com/ardanlabs/blogchain/foundation/blockchain/ledger/storage/boltdb"
	"github.com/ardanlabs/blogchain/foundation/logger"
	"github.com/ardanlabs/conf/v3"
	"go.uber.org/zap"
)

// build is the git version of this program. It is set using build flags in the makefile.
var build = "develop"

func main() {

	// Construct the application logger.
	log, err := logger.New("ADMIN")
	if err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
	defer log.Sync()

	// Perform the startup and shutdown sequence.
	if err := run(log); err != nil {
		if !errors.Is(err, commands.ErrHelp) {
			log.Errorw("startup", "ERROR", err)
		}
		log.Sync()
		os.Exit(1)
	}
}

func run(log *zap.SugaredLogger) error {
	cfg := struct {
		conf.Version
		Args   conf.Args
		Ledger struct {
			DBPath string `conf:"default:zblock/ledger.db"`
		}
	}{
		Version: conf.Version{
			Build: build,
			Desc:  "copyright information here",
		},
	}

	const prefix = "ADMIN"
	help, err := conf.Parse(prefix, &cfg)
	if err != nil {
		if errors.Is(err, conf.ErrHelpWanted) {
			fmt.Println(help)
			return nil
		}
		return fmt.Errorf("parsing config: %w", err)
	}

	log.Infow("startup", "status", "opening ledger", "path", cfg.Ledger.DBPath)

	strg, err := boltdb.New(cfg.Ledger.DBPath)
	if err != nil {
		return err
	}
	defer strg.Close()

	return processCommands(cfg.Args, strg)
}

// processCommands handles the execution of the commands specified on
// the command line.
func processCommands(args conf.Args, strg *boltdb.Bolt) error {
	switch args.Num(0) {
	case "accounts":
		if err := commands.Accounts(os.Stdout, strg); err != nil {
			return fmt.Errorf("getting accounts: %w", err)
		}
	case "logs":
		if err := commands.Logs(os.Stdout, strg, args.Num(1)); err != nil {
			return fmt.Errorf("getting logs: %w", err)
		}
	case "records":
		if err := commands.Records(os.Stdout, strg); err != nil {
			return fmt.Errorf("getting records: %w", err)
		}
	default:
		fmt.Println("accounts:       list every account with its balance and nonce")
		fmt.Println("logs <address>: show the program log for an address")
		fmt.Println("records:        decode every blog record")
		return commands.ErrHelp
	}

	return nil
}
