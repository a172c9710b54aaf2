package main

import (
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/gagliardetto/solana-go"
	"github.com/shopspring/decimal"
	"github.com/tswap-network/tswap-engine/internal/config"
	"github.com/tswap-network/tswap-engine/internal/core/application"
	"github.com/tswap-network/tswap-engine/pkg/mathutil"
	"github.com/urfave/cli/v2"
)

var appConfig *application.Config

func main() {
	if err := newApp().Run(os.Args); err != nil {
		fatal(err)
	}
}

func newApp() *cli.App {
	app := cli.NewApp()

	app.Version = "0.1.0"
	app.Name = "tswap"
	app.Usage = "Command line interface for operating nft amm pools"
	app.Commands = append(
		app.Commands,
		&poolCmd,
		&tradeCmd,
		&marginCmd,
		&snipeCmd,
		&ledgerCmd,
	)
	app.Before = func(*cli.Context) error {
		appConfig = nil
		if err := config.InitConfig(); err != nil {
			return err
		}
		appConfig = config.AppConfig()
		return appConfig.Validate()
	}
	app.After = func(*cli.Context) error {
		if appConfig != nil && appConfig.RepoManager() != nil {
			appConfig.RepoManager().Close()
		}
		return nil
	}
	return app
}

func service() *application.Service {
	return appConfig.Service()
}

func printJSON(resp interface{}) {
	buf, err := json.MarshalIndent(resp, "", "\t")
	if err != nil {
		fmt.Println("unable to encode response: ", err)
		return
	}
	fmt.Println(string(buf))
}

func pubkeyFlag(ctx *cli.Context, name string) (solana.PublicKey, error) {
	value := ctx.String(name)
	if value == "" {
		return solana.PublicKey{}, fmt.Errorf("missing %s", name)
	}
	pubkey, err := solana.PublicKeyFromBase58(value)
	if err != nil {
		return solana.PublicKey{}, fmt.Errorf("invalid %s: %s", name, err)
	}
	return pubkey, nil
}

func optionalPubkeyFlag(
	ctx *cli.Context, name string,
) (*solana.PublicKey, error) {
	if !ctx.IsSet(name) {
		return nil, nil
	}
	pubkey, err := pubkeyFlag(ctx, name)
	if err != nil {
		return nil, err
	}
	return &pubkey, nil
}

// solFlag parses an amount expressed in SOL into lamports.
func solFlag(ctx *cli.Context, name string) (uint64, error) {
	value := ctx.String(name)
	if value == "" {
		return 0, fmt.Errorf("missing %s", name)
	}
	amount, err := decimal.NewFromString(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %s", name, err)
	}
	return mathutil.FromSol(amount)
}

func proofFlag(ctx *cli.Context) ([][32]byte, error) {
	nodes := ctx.StringSlice("proof")
	proof := make([][32]byte, 0, len(nodes))
	for _, n := range nodes {
		buf, err := hex.DecodeString(n)
		if err != nil || len(buf) != 32 {
			return nil, fmt.Errorf("invalid proof node %q", n)
		}
		var node [32]byte
		copy(node[:], buf)
		proof = append(proof, node)
	}
	return proof, nil
}

type invalidUsageError struct {
	ctx     *cli.Context
	command string
}

func (e *invalidUsageError) Error() string {
	return fmt.Sprintf("invalid usage of command %s", e.command)
}

func fatal(err error) {
	var e *invalidUsageError
	if errors.As(err, &e) {
		_ = cli.ShowCommandHelp(e.ctx, e.command)
	} else {
		_, _ = fmt.Fprintf(os.Stderr, "[tswap] %v\n", err)
	}
	os.Exit(1)
}
