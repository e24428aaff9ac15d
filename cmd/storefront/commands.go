package main

import (
	"context"
	"encoding/base64"
	"fmt"
	"io"
	"log/slog"
	"os"

	"storefront/internal/domain/repository"
	"storefront/internal/infra/auth"
	"storefront/internal/infra/export"
	"storefront/internal/infra/persistence/memory"

	"github.com/gorilla/securecookie"
	"github.com/pkg/errors"
	"github.com/urfave/cli/v3"
	"golang.org/x/crypto/bcrypt"
)

func generateKeysCommand() *cli.Command {
	return &cli.Command{
		Name:  "generate-keys",
		Usage: "Generate session authentication and encryption keys for the config or .env",
		Action: func(_ context.Context, cmd *cli.Command) error {
			return printSessionKeys(cmd.Root().Writer)
		},
	}
}

func printSessionKeys(w io.Writer) error {
	authKey := securecookie.GenerateRandomKey(64)
	encryptionKey := securecookie.GenerateRandomKey(32)
	if authKey == nil || encryptionKey == nil {
		return errors.New("failed to read random bytes for session keys")
	}

	_, err := fmt.Fprintf(w, "SESSION_AUTHKEY=%s\nSESSION_ENCRYPTIONKEY=%s\n",
		base64.URLEncoding.EncodeToString(authKey),
		base64.URLEncoding.EncodeToString(encryptionKey),
	)

	return errors.Wrap(err, "failed to print session keys")
}

func exportProductsCommand() *cli.Command {
	return &cli.Command{
		Name:  "export-products",
		Usage: "Write the sample catalog to an xlsx workbook",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "out",
				Usage: "output path",
				Value: "products.xlsx",
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			return exportSampleProducts(ctx, cmd.String("out"))
		},
	}
}

// exportSampleProducts seeds a throwaway store so the workbook carries real ids.
func exportSampleProducts(ctx context.Context, path string) error {
	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	store := memory.NewStore()

	err := memory.Seed(ctx, memory.NewTransactionManager(store), auth.NewBcryptHasherWithCost(bcrypt.MinCost), nil, logger)
	if err != nil {
		return err
	}

	products, _, err := memory.NewProductRepository(store).List(ctx, repository.ProductFilter{}, repository.ListOptions{})
	if err != nil {
		return errors.Wrap(err, "failed to list sample products")
	}

	f, err := os.Create(path)
	if err != nil {
		return errors.Wrapf(err, "failed to create %s", path)
	}
	defer f.Close()

	if err := export.WriteProducts(f, products); err != nil {
		return err
	}

	logger.Info("Sample catalog exported", slog.String("path", path), slog.Int("products", len(products)))

	return nil
}
