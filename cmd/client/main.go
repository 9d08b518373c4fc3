package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/MKhiriev/cybucks/internal/adapter"
	"github.com/MKhiriev/cybucks/internal/logger"
)

var (
	buildVersion string
	buildDate    string
	buildCommit  string
)

func main() {
	address := flag.String("a", "localhost:8080", "bank server address")
	timeout := flag.Duration("t", 30*time.Second, "request timeout")
	showVersion := flag.Bool("version", false, "print build info and exit")
	flag.Usage = usage
	flag.Parse()

	if *showVersion {
		printBuildInfo()
		return
	}

	log := logger.NewLogger("cybucks-client")

	client, err := adapter.NewHTTPBankClient(*address, *timeout, log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	if err := runCommand(ctx, client, flag.Args()); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func runCommand(ctx context.Context, client adapter.BankClient, args []string) error {
	if len(args) == 0 {
		usage()
		return fmt.Errorf("no command given")
	}

	switch command := args[0]; command {
	case "login":
		if len(args) != 3 {
			return fmt.Errorf("usage: login <username> <password>")
		}
		balance, err := client.Login(ctx, args[1], args[2])
		if err != nil {
			return err
		}
		fmt.Printf("balance: %d\n", balance)

	case "deposit", "withdraw":
		if len(args) != 3 {
			return fmt.Errorf("usage: %s <username> <amount>", command)
		}
		amount, err := parseAmount(args[2])
		if err != nil {
			return err
		}

		var balance int64
		if command == "deposit" {
			balance, err = client.Deposit(ctx, args[1], amount)
		} else {
			balance, err = client.Withdraw(ctx, args[1], amount)
		}
		if err != nil {
			return err
		}
		fmt.Printf("balance: %d\n", balance)

	case "transfer":
		if len(args) != 4 {
			return fmt.Errorf("usage: transfer <from> <to> <amount>")
		}
		amount, err := parseAmount(args[3])
		if err != nil {
			return err
		}
		result, err := client.Transfer(ctx, args[1], args[2], amount)
		if err != nil {
			return err
		}
		fmt.Printf("transfer %s: %s=%d %s=%d\n",
			result.TransferID, args[1], result.SenderBalance, args[2], result.ReceiverBalance)

	case "accounts":
		accounts, err := client.ListAccounts(ctx)
		if err != nil {
			return err
		}
		for _, account := range accounts {
			fmt.Printf("%s\t%d\n", account.Username, account.Balance)
		}

	default:
		usage()
		return fmt.Errorf("unknown command %q", command)
	}

	return nil
}

func parseAmount(raw string) (int64, error) {
	var amount int64
	if _, err := fmt.Sscanf(raw, "%d", &amount); err != nil {
		return 0, fmt.Errorf("invalid amount %q", raw)
	}
	return amount, nil
}

func usage() {
	fmt.Fprintf(os.Stderr, `cybucks command-line client

usage: client [-a address] [-t timeout] <command> [args]

commands:
  login <username> <password>     log in (registers on first use), print balance
  deposit <username> <amount>     deposit, print new balance
  withdraw <username> <amount>    withdraw, print new balance
  transfer <from> <to> <amount>   transfer between accounts
  accounts                        list all accounts with balances
`)
}

func printBuildInfo() {
	if buildVersion == "" {
		buildVersion = "N/A"
	}

	if buildDate == "" {
		buildDate = "N/A"
	}

	if buildCommit == "" {
		buildCommit = "N/A"
	}

	fmt.Printf("Build version: %s\n", buildVersion)
	fmt.Printf("Build date: %s\n", buildDate)
	fmt.Printf("Build commit: %s\n", buildCommit)
}
