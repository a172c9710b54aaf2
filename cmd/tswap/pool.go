package main

import (
	"fmt"

	"github.com/gagliardetto/solana-go"
	"github.com/tswap-network/tswap-engine/internal/core/application"
	"github.com/tswap-network/tswap-engine/internal/core/domain"
	"github.com/urfave/cli/v2"
)

var (
	ownerFlag = &cli.StringFlag{
		Name:  "owner",
		Usage: "the owner of the pool or margin account",
	}
	poolFlag = &cli.StringFlag{
		Name:  "pool",
		Usage: "the address of the pool",
	}
	mintFlag = &cli.StringFlag{
		Name:  "mint",
		Usage: "the mint of the nft",
	}
	proofFlagDef = &cli.StringSliceFlag{
		Name:  "proof",
		Usage: "the hex encoded nodes of the merkle proof of the mint",
	}
	amountFlag = &cli.StringFlag{
		Name:  "amount",
		Usage: "the amount in SOL",
	}
	cosignerFlag = &cli.StringFlag{
		Name:  "cosigner",
		Usage: "the key of the cosigner approving the operation",
	}
	configFlags = []cli.Flag{
		&cli.StringFlag{
			Name:  "type",
			Usage: "the pool type, one of token, nft or trade",
			Value: "token",
		},
		&cli.StringFlag{
			Name:  "curve",
			Usage: "the bonding curve, either linear or exponential",
			Value: "linear",
		},
		&cli.StringFlag{
			Name:  "price",
			Usage: "the starting price in SOL",
		},
		&cli.Uint64Flag{
			Name:  "delta",
			Usage: "the price step in lamports for linear curves, in bps otherwise",
		},
		&cli.UintFlag{
			Name:  "mm_fee_bps",
			Usage: "the market maker fee of trade pools",
		},
		&cli.BoolFlag{
			Name:  "compound",
			Usage: "keep the mm fees in the pool",
		},
	}

	poolCmd = cli.Command{
		Name:  "pool",
		Usage: "manage pools",
		Subcommands: []*cli.Command{
			poolInitCmd, poolEditCmd, poolSetCmd,
			poolDepositSolCmd, poolWithdrawSolCmd, poolWithdrawMMFeesCmd,
			poolDepositNftCmd, poolWithdrawNftCmd,
			poolCloseCmd, poolUpgradeCmd,
			poolInfoCmd, poolListCmd, poolTradesCmd,
		},
	}

	poolInitCmd = &cli.Command{
		Name:  "init",
		Usage: "create a new pool",
		Flags: append([]cli.Flag{
			ownerFlag,
			&cli.StringFlag{
				Name:  "whitelist",
				Usage: "the whitelist of the collection traded by the pool",
			},
			&cli.BoolFlag{
				Name:  "sniping",
				Usage: "settle orders through the snipe flow",
			},
			&cli.BoolFlag{
				Name:  "cosigned",
				Usage: "require the cosigner on every trade",
			},
			&cli.UintFlag{
				Name:  "max_sell",
				Usage: "the cap of net taker sells while marginated, 0 for no cap",
			},
		}, configFlags...),
		Action: poolInitAction,
	}
	poolEditCmd = &cli.Command{
		Name:   "edit",
		Usage:  "replace the config of a pool",
		Flags:  append([]cli.Flag{ownerFlag, poolFlag}, configFlags...),
		Action: poolEditAction,
	}
	poolSetCmd = &cli.Command{
		Name:  "set",
		Usage: "change the settings of a pool that do not affect its address",
		Flags: []cli.Flag{
			ownerFlag, poolFlag,
			&cli.BoolFlag{Name: "cosigned", Usage: "require the cosigner"},
			&cli.UintFlag{Name: "max_sell", Usage: "the cap of net taker sells"},
			&cli.BoolFlag{Name: "compound", Usage: "keep the mm fees in the pool"},
		},
		Action: poolSetAction,
	}
	poolDepositSolCmd = &cli.Command{
		Name:   "deposit-sol",
		Usage:  "fund the escrow of a pool",
		Flags:  []cli.Flag{ownerFlag, poolFlag, amountFlag},
		Action: poolDepositSolAction,
	}
	poolWithdrawSolCmd = &cli.Command{
		Name:   "withdraw-sol",
		Usage:  "withdraw funds from the escrow of a pool",
		Flags:  []cli.Flag{ownerFlag, poolFlag, amountFlag},
		Action: poolWithdrawSolAction,
	}
	poolWithdrawMMFeesCmd = &cli.Command{
		Name:   "withdraw-mm-fees",
		Usage:  "withdraw compounded mm fees from a trade pool",
		Flags:  []cli.Flag{ownerFlag, poolFlag, amountFlag},
		Action: poolWithdrawMMFeesAction,
	}
	poolDepositNftCmd = &cli.Command{
		Name:   "deposit-nft",
		Usage:  "deposit an nft into a pool",
		Flags:  []cli.Flag{ownerFlag, poolFlag, mintFlag, proofFlagDef},
		Action: poolDepositNftAction,
	}
	poolWithdrawNftCmd = &cli.Command{
		Name:   "withdraw-nft",
		Usage:  "withdraw an nft from a pool",
		Flags:  []cli.Flag{ownerFlag, poolFlag},
		Action: poolWithdrawNftAction,
	}
	poolCloseCmd = &cli.Command{
		Name:   "close",
		Usage:  "close an empty pool and drain its escrow",
		Flags:  []cli.Flag{ownerFlag, poolFlag},
		Action: poolCloseAction,
	}
	poolUpgradeCmd = &cli.Command{
		Name:   "upgrade",
		Usage:  "upgrade a pool to the current version",
		Flags:  []cli.Flag{ownerFlag, poolFlag},
		Action: poolUpgradeAction,
	}
	poolInfoCmd = &cli.Command{
		Name:   "info",
		Usage:  "get info about a pool",
		Flags:  []cli.Flag{poolFlag},
		Action: poolInfoAction,
	}
	poolListCmd = &cli.Command{
		Name:   "list",
		Usage:  "list the pools of an owner",
		Flags:  []cli.Flag{ownerFlag},
		Action: poolListAction,
	}
	poolTradesCmd = &cli.Command{
		Name:   "trades",
		Usage:  "list the trades of a pool",
		Flags:  []cli.Flag{poolFlag},
		Action: poolTradesAction,
	}
)

func parsePoolConfig(ctx *cli.Context) (domain.PoolConfig, error) {
	poolType, err := domain.ParsePoolType(ctx.String("type"))
	if err != nil {
		return domain.PoolConfig{}, err
	}
	curveType, err := domain.ParseCurveType(ctx.String("curve"))
	if err != nil {
		return domain.PoolConfig{}, err
	}
	price, err := solFlag(ctx, "price")
	if err != nil {
		return domain.PoolConfig{}, err
	}

	cfg := domain.PoolConfig{
		PoolType:       poolType,
		CurveType:      curveType,
		StartingPrice:  price,
		Delta:          ctx.Uint64("delta"),
		MMCompoundFees: ctx.Bool("compound"),
	}
	if ctx.IsSet("mm_fee_bps") {
		bps := ctx.Uint("mm_fee_bps")
		if bps > domain.MaxMMFeeBps {
			return domain.PoolConfig{}, fmt.Errorf("mm_fee_bps out of range")
		}
		fee := uint16(bps)
		cfg.MMFeeBps = &fee
	}
	return cfg, nil
}

func poolInitAction(ctx *cli.Context) error {
	owner, err := pubkeyFlag(ctx, "owner")
	if err != nil {
		return err
	}
	whitelist, err := pubkeyFlag(ctx, "whitelist")
	if err != nil {
		return err
	}
	cfg, err := parsePoolConfig(ctx)
	if err != nil {
		return err
	}
	orderType := domain.OrderTypeStandard
	if ctx.Bool("sniping") {
		orderType = domain.OrderTypeSniping
	}

	pool, err := service().InitPool(ctx.Context, application.InitPoolRequest{
		Owner:             owner,
		Whitelist:         whitelist,
		Config:            cfg,
		OrderType:         orderType,
		IsCosigned:        ctx.Bool("cosigned"),
		MaxTakerSellCount: uint32(ctx.Uint("max_sell")),
	})
	if err != nil {
		return err
	}

	printJSON(newPoolView(pool))
	return nil
}

func poolEditAction(ctx *cli.Context) error {
	owner, err := pubkeyFlag(ctx, "owner")
	if err != nil {
		return err
	}
	address, err := pubkeyFlag(ctx, "pool")
	if err != nil {
		return err
	}
	cfg, err := parsePoolConfig(ctx)
	if err != nil {
		return err
	}

	pool, err := service().EditPool(ctx.Context, owner, address, cfg)
	if err != nil {
		return err
	}

	printJSON(newPoolView(pool))
	return nil
}

func poolSetAction(ctx *cli.Context) error {
	owner, err := pubkeyFlag(ctx, "owner")
	if err != nil {
		return err
	}
	address, err := pubkeyFlag(ctx, "pool")
	if err != nil {
		return err
	}

	req := application.EditPoolInPlaceRequest{Owner: owner, Pool: address}
	if ctx.IsSet("cosigned") {
		cosigned := ctx.Bool("cosigned")
		req.IsCosigned = &cosigned
	}
	if ctx.IsSet("max_sell") {
		count := uint32(ctx.Uint("max_sell"))
		req.MaxTakerSellCount = &count
	}
	if ctx.IsSet("compound") {
		compound := ctx.Bool("compound")
		req.MMCompoundFees = &compound
	}
	if req.IsCosigned == nil && req.MaxTakerSellCount == nil &&
		req.MMCompoundFees == nil {
		return &invalidUsageError{ctx, ctx.Command.Name}
	}

	pool, err := service().EditPoolInPlace(ctx.Context, req)
	if err != nil {
		return err
	}

	printJSON(newPoolView(pool))
	return nil
}

func poolDepositSolAction(ctx *cli.Context) error {
	owner, address, amount, err := ownerPoolAmount(ctx)
	if err != nil {
		return err
	}
	if err := service().DepositSol(ctx.Context, owner, address, amount); err != nil {
		return err
	}

	fmt.Println("deposited")
	return nil
}

func poolWithdrawSolAction(ctx *cli.Context) error {
	owner, address, amount, err := ownerPoolAmount(ctx)
	if err != nil {
		return err
	}
	if err := service().WithdrawSol(ctx.Context, owner, address, amount); err != nil {
		return err
	}

	fmt.Println("withdrawn")
	return nil
}

func poolWithdrawMMFeesAction(ctx *cli.Context) error {
	owner, address, amount, err := ownerPoolAmount(ctx)
	if err != nil {
		return err
	}
	if err := service().WithdrawMMFees(ctx.Context, owner, address, amount); err != nil {
		return err
	}

	fmt.Println("withdrawn")
	return nil
}

func poolDepositNftAction(ctx *cli.Context) error {
	owner, err := pubkeyFlag(ctx, "owner")
	if err != nil {
		return err
	}
	address, err := pubkeyFlag(ctx, "pool")
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

	pool, err := service().DepositNft(ctx.Context, owner, address, mint, proof)
	if err != nil {
		return err
	}

	printJSON(newPoolView(pool))
	return nil
}

func poolWithdrawNftAction(ctx *cli.Context) error {
	owner, err := pubkeyFlag(ctx, "owner")
	if err != nil {
		return err
	}
	address, err := pubkeyFlag(ctx, "pool")
	if err != nil {
		return err
	}

	pool, err := service().WithdrawNft(ctx.Context, owner, address)
	if err != nil {
		return err
	}

	printJSON(newPoolView(pool))
	return nil
}

func poolCloseAction(ctx *cli.Context) error {
	owner, err := pubkeyFlag(ctx, "owner")
	if err != nil {
		return err
	}
	address, err := pubkeyFlag(ctx, "pool")
	if err != nil {
		return err
	}

	drained, err := service().ClosePool(ctx.Context, owner, address)
	if err != nil {
		return err
	}

	fmt.Printf("pool closed, %d lamports returned to owner\n", drained)
	return nil
}

func poolUpgradeAction(ctx *cli.Context) error {
	owner, err := pubkeyFlag(ctx, "owner")
	if err != nil {
		return err
	}
	address, err := pubkeyFlag(ctx, "pool")
	if err != nil {
		return err
	}

	pool, err := service().UpgradePool(ctx.Context, owner, address)
	if err != nil {
		return err
	}

	printJSON(newPoolView(pool))
	return nil
}

func poolInfoAction(ctx *cli.Context) error {
	address, err := pubkeyFlag(ctx, "pool")
	if err != nil {
		return err
	}

	pool, err := service().GetPool(ctx.Context, address)
	if err != nil {
		return err
	}

	printJSON(newPoolView(pool))
	return nil
}

func poolListAction(ctx *cli.Context) error {
	owner, err := pubkeyFlag(ctx, "owner")
	if err != nil {
		return err
	}

	pools, err := service().ListPools(ctx.Context, owner)
	if err != nil {
		return err
	}

	views := make([]poolView, 0, len(pools))
	for _, p := range pools {
		views = append(views, newPoolView(p))
	}
	printJSON(views)
	return nil
}

func poolTradesAction(ctx *cli.Context) error {
	address, err := pubkeyFlag(ctx, "pool")
	if err != nil {
		return err
	}

	trades, err := service().ListTrades(ctx.Context, address)
	if err != nil {
		return err
	}

	views := make([]tradeView, 0, len(trades))
	for _, t := range trades {
		views = append(views, newTradeView(t))
	}
	printJSON(views)
	return nil
}

func ownerPoolAmount(
	ctx *cli.Context,
) (owner, pool solana.PublicKey, amount uint64, err error) {
	if owner, err = pubkeyFlag(ctx, "owner"); err != nil {
		return
	}
	if pool, err = pubkeyFlag(ctx, "pool"); err != nil {
		return
	}
	amount, err = solFlag(ctx, "amount")
	return
}
