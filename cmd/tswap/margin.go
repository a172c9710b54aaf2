package main

import (
	"fmt"

	"github.com/gagliardetto/solana-go"
	"github.com/urfave/cli/v2"
)

var (
	marginFlag = &cli.StringFlag{
		Name:  "margin",
		Usage: "the address of the margin account",
	}

	marginCmd = cli.Command{
		Name:  "margin",
		Usage: "manage margin accounts",
		Subcommands: []*cli.Command{
			marginInitCmd, marginDepositCmd, marginWithdrawCmd, marginCloseCmd,
			marginAttachCmd, marginDetachCmd, marginListCmd,
		},
	}

	marginInitCmd = &cli.Command{
		Name:  "init",
		Usage: "open a new margin account",
		Flags: []cli.Flag{
			ownerFlag,
			&cli.UintFlag{Name: "nr", Usage: "the index of the account"},
			&cli.StringFlag{Name: "name", Usage: "the name of the account"},
		},
		Action: marginInitAction,
	}
	marginDepositCmd = &cli.Command{
		Name:   "deposit",
		Usage:  "fund a margin account",
		Flags:  []cli.Flag{ownerFlag, marginFlag, amountFlag},
		Action: marginDepositAction,
	}
	marginWithdrawCmd = &cli.Command{
		Name:   "withdraw",
		Usage:  "withdraw funds from a margin account",
		Flags:  []cli.Flag{ownerFlag, marginFlag, amountFlag},
		Action: marginWithdrawAction,
	}
	marginCloseCmd = &cli.Command{
		Name:   "close",
		Usage:  "close a margin account backing no pool",
		Flags:  []cli.Flag{ownerFlag, marginFlag},
		Action: marginCloseAction,
	}
	marginAttachCmd = &cli.Command{
		Name:   "attach",
		Usage:  "back a pool with a margin account",
		Flags:  []cli.Flag{ownerFlag, marginFlag, poolFlag},
		Action: marginAttachAction,
	}
	marginDetachCmd = &cli.Command{
		Name:   "detach",
		Usage:  "release a pool from its margin account, moving amount to the pool",
		Flags:  []cli.Flag{ownerFlag, marginFlag, poolFlag, amountFlag},
		Action: marginDetachAction,
	}
	marginListCmd = &cli.Command{
		Name:   "list",
		Usage:  "list the margin accounts of an owner",
		Flags:  []cli.Flag{ownerFlag},
		Action: marginListAction,
	}
)

func marginInitAction(ctx *cli.Context) error {
	owner, err := pubkeyFlag(ctx, "owner")
	if err != nil {
		return err
	}
	nr := ctx.Uint("nr")
	if nr > 0xffff {
		return fmt.Errorf("nr out of range")
	}

	margin, err := service().InitMarginAccount(
		ctx.Context, owner, uint16(nr), ctx.String("name"),
	)
	if err != nil {
		return err
	}

	printJSON(newMarginView(margin))
	return nil
}

func marginDepositAction(ctx *cli.Context) error {
	owner, margin, amount, err := ownerMarginAmount(ctx)
	if err != nil {
		return err
	}
	if err := service().DepositMargin(ctx.Context, owner, margin, amount); err != nil {
		return err
	}

	fmt.Println("deposited")
	return nil
}

func marginWithdrawAction(ctx *cli.Context) error {
	owner, margin, amount, err := ownerMarginAmount(ctx)
	if err != nil {
		return err
	}
	if err := service().WithdrawMargin(ctx.Context, owner, margin, amount); err != nil {
		return err
	}

	fmt.Println("withdrawn")
	return nil
}

func marginCloseAction(ctx *cli.Context) error {
	owner, err := pubkeyFlag(ctx, "owner")
	if err != nil {
		return err
	}
	margin, err := pubkeyFlag(ctx, "margin")
	if err != nil {
		return err
	}

	drained, err := service().CloseMarginAccount(ctx.Context, owner, margin)
	if err != nil {
		return err
	}

	fmt.Printf("margin account closed, %d lamports returned to owner\n", drained)
	return nil
}

func marginAttachAction(ctx *cli.Context) error {
	owner, err := pubkeyFlag(ctx, "owner")
	if err != nil {
		return err
	}
	margin, err := pubkeyFlag(ctx, "margin")
	if err != nil {
		return err
	}
	pool, err := pubkeyFlag(ctx, "pool")
	if err != nil {
		return err
	}

	attached, err := service().AttachPoolToMargin(ctx.Context, owner, pool, margin)
	if err != nil {
		return err
	}

	printJSON(newPoolView(attached))
	return nil
}

func marginDetachAction(ctx *cli.Context) error {
	owner, margin, amount, err := ownerMarginAmount(ctx)
	if err != nil {
		return err
	}
	pool, err := pubkeyFlag(ctx, "pool")
	if err != nil {
		return err
	}

	detached, err := service().DetachPoolFromMargin(
		ctx.Context, owner, pool, margin, amount,
	)
	if err != nil {
		return err
	}

	printJSON(newPoolView(detached))
	return nil
}

func marginListAction(ctx *cli.Context) error {
	owner, err := pubkeyFlag(ctx, "owner")
	if err != nil {
		return err
	}

	margins, err := service().ListMarginAccounts(ctx.Context, owner)
	if err != nil {
		return err
	}

	views := make([]marginView, 0, len(margins))
	for _, m := range margins {
		views = append(views, newMarginView(m))
	}
	printJSON(views)
	return nil
}

func ownerMarginAmount(
	ctx *cli.Context,
) (owner, margin solana.PublicKey, amount uint64, err error) {
	if owner, err = pubkeyFlag(ctx, "owner"); err != nil {
		return
	}
	if margin, err = pubkeyFlag(ctx, "margin"); err != nil {
		return
	}
	amount, err = solFlag(ctx, "amount")
	return
}
