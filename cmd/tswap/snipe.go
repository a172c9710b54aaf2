package main

import (
	"github.com/tswap-network/tswap-engine/internal/core/application"
	"github.com/urfave/cli/v2"
)

var (
	snipeCmd = cli.Command{
		Name:        "snipe",
		Usage:       "operate snipe orders of sniping pools",
		Subcommands: []*cli.Command{snipeFreezeCmd, snipeUnfreezeCmd, snipeTakeCmd},
	}

	snipeFreezeCmd = &cli.Command{
		Name:   "freeze",
		Usage:  "reserve the current snipe quote of a pool",
		Flags:  []cli.Flag{poolFlag, marginFlag, cosignerFlag},
		Action: snipeFreezeAction(true),
	}
	snipeUnfreezeCmd = &cli.Command{
		Name:   "unfreeze",
		Usage:  "release the amount reserved by a freeze",
		Flags:  []cli.Flag{poolFlag, marginFlag, cosignerFlag},
		Action: snipeFreezeAction(false),
	}
	snipeTakeCmd = &cli.Command{
		Name:  "take",
		Usage: "settle the snipe order of a pool",
		Flags: []cli.Flag{
			poolFlag, marginFlag, mintFlag, proofFlagDef, cosignerFlag,
			&cli.StringFlag{
				Name:  "executor",
				Usage: "the account executing the order",
			},
			&cli.StringFlag{
				Name:  "price",
				Usage: "the actual price in SOL paid for the nft",
			},
		},
		Action: snipeTakeAction,
	}
)

func snipeFreezeAction(freeze bool) cli.ActionFunc {
	return func(ctx *cli.Context) error {
		pool, err := pubkeyFlag(ctx, "pool")
		if err != nil {
			return err
		}
		margin, err := pubkeyFlag(ctx, "margin")
		if err != nil {
			return err
		}
		cosigner, err := optionalPubkeyFlag(ctx, "cosigner")
		if err != nil {
			return err
		}

		updated, err := service().SetPoolFreeze(
			ctx.Context, application.SetPoolFreezeRequest{
				Pool:     pool,
				Margin:   margin,
				Freeze:   freeze,
				Cosigner: cosigner,
			},
		)
		if err != nil {
			return err
		}

		printJSON(newPoolView(updated))
		return nil
	}
}

func snipeTakeAction(ctx *cli.Context) error {
	pool, err := pubkeyFlag(ctx, "pool")
	if err != nil {
		return err
	}
	margin, err := pubkeyFlag(ctx, "margin")
	if err != nil {
		return err
	}
	executor, err := pubkeyFlag(ctx, "executor")
	if err != nil {
		return err
	}
	mint, err := pubkeyFlag(ctx, "mint")
	if err != nil {
		return err
	}
	proof, err := proofFlag(ctx)
	if err != nil {
		return err
	}
	price, err := solFlag(ctx, "price")
	if err != nil {
		return err
	}
	cosigner, err := optionalPubkeyFlag(ctx, "cosigner")
	if err != nil {
		return err
	}

	trade, err := service().TakeSnipe(ctx.Context, application.TakeSnipeRequest{
		Pool:        pool,
		Margin:      margin,
		Executor:    executor,
		Mint:        mint,
		Proof:       proof,
		ActualPrice: price,
		Cosigner:    cosigner,
	})
	if err != nil {
		return err
	}

	printJSON(newTradeView(trade))
	return nil
}
