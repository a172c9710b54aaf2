package main

import (
	"github.com/tswap-network/tswap-engine/pkg/mathutil"
	"github.com/urfave/cli/v2"
)

var (
	accountFlag = &cli.StringFlag{
		Name:  "account",
		Usage: "the account to operate on",
	}

	ledgerCmd = cli.Command{
		Name:        "ledger",
		Usage:       "inspect and fund accounts of the local ledger",
		Subcommands: []*cli.Command{ledgerBalanceCmd, ledgerCreditCmd},
	}

	ledgerBalanceCmd = &cli.Command{
		Name:   "balance",
		Usage:  "get the balance of an account",
		Flags:  []cli.Flag{accountFlag},
		Action: ledgerBalanceAction,
	}
	ledgerCreditCmd = &cli.Command{
		Name:   "credit",
		Usage:  "mint funds into an external account",
		Flags:  []cli.Flag{accountFlag, amountFlag},
		Action: ledgerCreditAction,
	}
)

func ledgerBalanceAction(ctx *cli.Context) error {
	account, err := pubkeyFlag(ctx, "account")
	if err != nil {
		return err
	}

	l := appConfig.Ledger()
	balance, err := l.Balance(ctx.Context, account)
	if err != nil {
		return err
	}
	available, err := l.AvailableBalance(ctx.Context, account)
	if err != nil {
		return err
	}

	printJSON(map[string]interface{}{
		"account":   account.String(),
		"balance":   mathutil.ToSol(balance),
		"available": mathutil.ToSol(available),
	})
	return nil
}

func ledgerCreditAction(ctx *cli.Context) error {
	account, err := pubkeyFlag(ctx, "account")
	if err != nil {
		return err
	}
	amount, err := solFlag(ctx, "amount")
	if err != nil {
		return err
	}
	if err := appConfig.Ledger().Credit(ctx.Context, account, amount); err != nil {
		return err
	}

	return ledgerBalanceAction(ctx)
}
