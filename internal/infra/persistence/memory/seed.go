package memory

import (
	"context"
	"log/slog"

	"storefront/config"
	"storefront/internal/domain/entity"
	"storefront/internal/domain/repository"
	"storefront/internal/domain/service"
	"storefront/internal/errors"
	"storefront/internal/util"

	"github.com/shopspring/decimal"
	"go.uber.org/fx"
)

type seedProduct struct {
	category    string
	name        string
	description string
	price       string
	discount    string
	stock       int
	sku         string
	image       string
	featured    bool
}

var seedCategories = []entity.Category{
	{
		Name:        "Electrónica",
		Description: util.Ptr("Dispositivos electrónicos y accesorios"),
		Image:       util.Ptr("https://images.unsplash.com/photo-1498049794561-7780e7231661"),
	},
	{
		Name:        "Muebles",
		Description: util.Ptr("Muebles para el hogar y la oficina"),
		Image:       util.Ptr("https://images.unsplash.com/photo-1555041469-a586c61ea9bc"),
	},
	{
		Name:        "Ropa",
		Description: util.Ptr("Ropa y accesorios de moda"),
		Image:       util.Ptr("https://images.unsplash.com/photo-1489987707025-afc232f7ea0f"),
	},
}

var seedProducts = []seedProduct{
	{
		category:    "Electrónica",
		name:        "Laptop Ultradelgada Premium 2023",
		description: "Potente laptop con procesador de última generación y pantalla de alta resolución",
		price:       "899.99",
		discount:    "150",
		stock:       25,
		sku:         "LAPTOP-2023",
		image:       "https://images.unsplash.com/photo-1496181133206-80ce9b88a853",
		featured:    true,
	},
	{
		category:    "Electrónica",
		name:        "Audífonos Inalámbricos Pro",
		description: "Auriculares con cancelación de ruido y gran calidad de sonido",
		price:       "149.99",
		discount:    "0",
		stock:       50,
		sku:         "AUDIO-PRO-1",
		image:       "https://images.unsplash.com/photo-1505740420928-5e560c06d30e",
		featured:    true,
	},
	{
		category:    "Muebles",
		name:        "Silla Ergonómica Premium",
		description: "Silla de oficina con soporte lumbar y ajustes personalizables",
		price:       "249.99",
		discount:    "50",
		stock:       15,
		sku:         "CHAIR-ERGO-1",
		image:       "https://images.unsplash.com/photo-1580480055273-228ff5388ef8",
		featured:    true,
	},
	{
		category:    "Ropa",
		name:        "Camiseta de Algodón Premium",
		description: "Camiseta de algodón pima de alta calidad y diseño exclusivo",
		price:       "29.99",
		discount:    "0",
		stock:       100,
		sku:         "SHIRT-PM-1",
		image:       "https://images.unsplash.com/photo-1521572163474-6864f9cf17ab",
		featured:    false,
	},
}

// SeedParams holds the dependencies of RunSeed, injected by Fx.
type SeedParams struct {
	fx.In

	Config    *config.Config
	TxManager repository.TransactionManager
	Hasher    service.PasswordHasher
	Logger    *slog.Logger
}

// RunSeed loads the sample catalog when seeding is enabled.
func RunSeed(params SeedParams) error {
	if params.Config.Seed == nil || !params.Config.Seed.Enabled {
		params.Logger.Info("Seed disabled, starting with an empty store")

		return nil
	}

	return Seed(context.Background(), params.TxManager, params.Hasher, params.Config.Seed, params.Logger)
}

// Seed inserts the sample categories and products and, when a password is
// configured, the admin account. A store that already has categories is left untouched.
func Seed(ctx context.Context, txManager repository.TransactionManager, hasher service.PasswordHasher, cfg *config.SeedConfig, logger *slog.Logger) error {
	var adminHash string
	if cfg != nil && cfg.AdminPassword != "" {
		hash, err := hasher.Hash(cfg.AdminPassword)
		if err != nil {
			return errors.Wrap(err, "failed to hash seed admin password")
		}
		adminHash = hash
	}

	err := txManager.Execute(ctx, func(factory repository.RepositoryFactory) error {
		categoryRepo := factory.NewCategoryRepository()

		existing, err := categoryRepo.List(ctx)
		if err != nil {
			return err
		}
		if len(existing) > 0 {
			logger.Info("Store already seeded, skipping")

			return nil
		}

		categoryIDs := make(map[string]int64, len(seedCategories))
		for _, c := range seedCategories {
			category := c
			if err := categoryRepo.Create(ctx, &category); err != nil {
				return errors.Wrapf(err, "failed to seed category %s", c.Name)
			}
			categoryIDs[category.Name] = category.ID
		}

		products, err := SampleProducts(categoryIDs)
		if err != nil {
			return err
		}
		productRepo := factory.NewProductRepository()
		for _, product := range products {
			if err := productRepo.Create(ctx, product); err != nil {
				return errors.Wrapf(err, "failed to seed product %s", product.SKU)
			}
		}

		if adminHash != "" {
			admin := &entity.User{
				Username:     cfg.AdminUsername,
				Email:        cfg.AdminEmail,
				PasswordHash: adminHash,
				IsAdmin:      true,
			}
			if err := factory.NewUserRepository().Create(ctx, admin); err != nil {
				return errors.Wrap(err, "failed to seed admin user")
			}
		}

		logger.Info("Store seeded",
			slog.Int("categories", len(seedCategories)),
			slog.Int("products", len(products)),
			slog.Bool("admin", adminHash != ""),
		)

		return nil
	})

	return errors.Wrap(err, "seed failed")
}

// SampleProducts builds the sample products. categoryIDs maps category names to ids;
// products whose category is missing from it are left uncategorised.
func SampleProducts(categoryIDs map[string]int64) ([]*entity.Product, error) {
	products := make([]*entity.Product, 0, len(seedProducts))
	for _, p := range seedProducts {
		price, err := decimal.NewFromString(p.price)
		if err != nil {
			return nil, errors.Wrapf(err, "invalid seed price for %s", p.sku)
		}
		discount, err := decimal.NewFromString(p.discount)
		if err != nil {
			return nil, errors.Wrapf(err, "invalid seed discount for %s", p.sku)
		}

		product := &entity.Product{
			Name:        p.name,
			Description: util.Ptr(p.description),
			Price:       price,
			Discount:    discount,
			Stock:       p.stock,
			SKU:         p.sku,
			Image:       util.Ptr(p.image),
			Featured:    p.featured,
		}
		if id, ok := categoryIDs[p.category]; ok {
			product.CategoryID = util.Ptr(id)
		}
		products = append(products, product)
	}

	return products, nil
}
