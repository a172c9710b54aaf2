package main

import (
	"fmt"

	"github.com/tswap-network/tswap-engine/internal/core/application"
	"github.com/tswap-network/tswap-engine/internal/core/domain"
	"github.com/urfave/cli/v2"
)

var (
	brokerFlag = &cli.StringFlag{
		Name:  "broker",
		Usage: "the account receiving the broker fee",
	}
	takerFlag = &cli.StringFlag{
		Name:  "taker",
		Usage: "the account trading against the pool",
	}

	tradeCmd = cli.Command{
		Name:        "trade",
		Usage:       "trade nfts against pools",
		Subcommands: []*cli.Command{tradeQuoteCmd, tradeBuyCmd, tradeSellCmd},
	}

	tradeQuoteCmd = &cli.Command{
		Name:  "quote",
		Usage: "get the price of the next trade on a pool",
		Flags: []cli.Flag{
			poolFlag,
			&cli.StringFlag{
				Name:  "side",
				Usage: "the side of the taker, either buy or sell",
				Value: "buy",
			},
		},
		Action: tradeQuoteAction,
	}
	tradeBuyCmd = &cli.Command{
		Name:  "buy",
		Usage: "buy an nft from a pool",
		Flags: []cli.Flag{
			poolFlag, takerFlag, mintFlag, proofFlagDef, brokerFlag, cosignerFlag,
			&cli.StringFlag{
				Name:  "max_price",
				Usage: "the highest price in SOL accepted, fees excluded",
			},
		},
		Action: tradeBuyAction,
	}
	tradeSellCmd = &cli.Command{
		Name:  "sell",
		Usage: "sell an nft to a pool",
		Flags: []cli.Flag{
			poolFlag, takerFlag, mintFlag, proofFlagDef, brokerFlag, cosignerFlag,
			&cli.StringFlag{
				Name:  "min_price",
				Usage: "the lowest price in SOL accepted, fees excluded",
			},
		},
		Action: tradeSellAction,
	}
)

func tradeQuoteAction(ctx *cli.Context) error {
	address, err := pubkeyFlag(ctx, "pool")
	if err != nil {
		return err
	}

	var side domain.TakerSide
	switch ctx.String("side") {
	case "buy":
		side = domain.TakerSideBuy
	case "sell":
		side = domain.TakerSideSell
	default:
		return fmt.Errorf("side must be either buy or sell")
	}

	quote, err := service().Quote(ctx.Context, address, side)
	if err != nil {
		return err
	}

	printJSON(newQuoteView(quote))
	return nil
}

func tradeBuyAction(ctx *cli.Context) error {
	address, err := pubkeyFlag(ctx, "pool")
	if err != nil {
		return err
	}
	buyer, err := pubkeyFlag(ctx, "taker")
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
	maxPrice, err := solFlag(ctx, "max_price")
	if err != nil {
		return err
	}
	broker, err := optionalPubkeyFlag(ctx, "broker")
	if err != nil {
		return err
	}
	cosigner, err := optionalPubkeyFlag(ctx, "cosigner")
	if err != nil {
		return err
	}

	trade, err := service().BuyNft(ctx.Context, application.BuyNftRequest{
		Pool:     address,
		Buyer:    buyer,
		Mint:     mint,
		Proof:    proof,
		MaxPrice: maxPrice,
		Broker:   broker,
		Cosigner: cosigner,
	})
	if err != nil {
		return err
	}

	printJSON(newTradeView(trade))
	return nil
}

func tradeSellAction(ctx *cli.Context) error {
	address, err := pubkeyFlag(ctx, "pool")
	if err != nil {
		return err
	}
	seller, err := pubkeyFlag(ctx, "taker")
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
	minPrice := uint64(0)
	if ctx.IsSet("min_price") {
		if minPrice, err = solFlag(ctx, "min_price"); err != nil {
			return err
		}
	}
	broker, err := optionalPubkeyFlag(ctx, "broker")
	if err != nil {
		return err
	}
	cosigner, err := optionalPubkeyFlag(ctx, "cosigner")
	if err != nil {
		return err
	}

	trade, err := service().SellNft(ctx.Context, application.SellNftRequest{
		Pool:     address,
		Seller:   seller,
		Mint:     mint,
		Proof:    proof,
		MinPrice: minPrice,
		Broker:   broker,
		Cosigner: cosigner,
	})
	if err != nil {
		return err
	}

	printJSON(newTradeView(trade))
	return nil
}
