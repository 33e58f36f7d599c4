// Package main наполняет базу данных стартовым каталогом и учётной записью администратора.
package main

import (
	"context"
	"errors"
	"flag"
	"time"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/mmeshcher/luxehome-system/internal/config"
	"github.com/mmeshcher/luxehome-system/internal/model"
	"github.com/mmeshcher/luxehome-system/internal/money"
	"github.com/mmeshcher/luxehome-system/internal/repository"
)

const (
	adminName     = "Admin"
	adminEmail    = "admin@luxehome.com"
	adminPassword = "admin123"
)

var sampleProducts = []model.Product{
	{
		Name:        "Luxury Velvet Sofa",
		Description: "Indulge in ultimate comfort with our handcrafted velvet sofa. Features deep cushioning, solid oak frame, and premium Italian velvet upholstery. Perfect centerpiece for your living room.",
		Price:       money.FromDollars(2499.99),
		Category:    "Furniture",
		Images: []string{
			"https://images.unsplash.com/photo-1555041469-a586c61ea9bc?w=800",
			"https://images.unsplash.com/photo-1540574163026-643ea20ade25?w=800",
		},
		Stock:  12,
		Rating: 4.8,
		Tags:   []string{"luxury", "modern", "bestseller", "comfortable"},
	},
	{
		Name:        "Marble Coffee Table",
		Description: "Elegant coffee table with genuine Carrara marble top and brushed gold metal base. A statement piece that combines functionality with sophisticated design.",
		Price:       money.FromDollars(899.99),
		Category:    "Furniture",
		Images: []string{
			"https://images.unsplash.com/photo-1565191999001-551c187427bb?w=800",
			"https://images.unsplash.com/photo-1611269154421-4e27233ac5c7?w=800",
		},
		Stock:  8,
		Rating: 4.9,
		Tags:   []string{"elegant", "marble", "modern", "premium"},
	},
	{
		Name:        "Crystal Chandelier",
		Description: "Stunning 8-light crystal chandelier with cascading crystals and chrome finish. Creates mesmerizing light patterns and adds glamour to any space.",
		Price:       money.FromDollars(1299.99),
		Category:    "Lighting",
		Images: []string{
			"https://images.unsplash.com/photo-1513506003901-1e6a229e2d15?w=800",
			"https://images.unsplash.com/photo-1565373679940-e2c8d119e6c7?w=800",
		},
		Stock:  5,
		Rating: 5.0,
		Tags:   []string{"luxury", "crystal", "elegant", "statement"},
	},
	{
		Name:        "Ceramic Vase Set",
		Description: "Set of three handmade ceramic vases in complementary neutral tones. Each piece is individually crafted, bringing organic warmth to shelves and tabletops.",
		Price:       money.FromDollars(149.99),
		Category:    "Decor",
		Images: []string{
			"https://images.unsplash.com/photo-1578500494198-246f612d3b3d?w=800",
		},
		Stock:  20,
		Rating: 4.6,
		Tags:   []string{"handmade", "ceramic", "minimal"},
	},
	{
		Name:        "Brass Floor Lamp",
		Description: "Mid-century inspired floor lamp with adjustable brass arm and linen shade. Warm, directional light for reading corners and lounges.",
		Price:       money.FromDollars(329.99),
		Category:    "Lighting",
		Images: []string{
			"https://images.unsplash.com/photo-1507473885765-e6ed057f782c?w=800",
		},
		Stock:  14,
		Rating: 4.7,
		Tags:   []string{"brass", "mid-century", "reading"},
	},
}

func main() {
	logger, _ := zap.NewProduction()
	defer logger.Sync()

	sugar := logger.Sugar()

	reset := flag.Bool("reset", false, "truncate all tables before seeding")

	cfg, err := config.Parse()
	if err != nil {
		sugar.Fatalw("configuration error", "error", err.Error())
	}

	repo, err := repository.NewPostgresRepository(cfg.DatabaseURI)
	if err != nil {
		sugar.Fatalw("database initialization error", "error", err.Error())
	}
	defer repo.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if *reset {
		if err := repo.Truncate(ctx); err != nil {
			sugar.Fatalw("reset database error", "error", err.Error())
		}
		sugar.Info("database truncated")
	}

	for _, p := range sampleProducts {
		created, err := repo.CreateProduct(ctx, p)
		if err != nil {
			sugar.Fatalw("seed product error", "name", p.Name, "error", err.Error())
		}
		sugar.Infow("product seeded", "id", created.ID, "name", created.Name)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(adminPassword), bcrypt.DefaultCost)
	if err != nil {
		sugar.Fatalw("hash admin password error", "error", err.Error())
	}

	admin, err := repo.CreateUser(ctx, adminName, adminEmail, hash, model.RoleAdmin)
	if err != nil {
		if errors.Is(err, repository.ErrUserExists) {
			sugar.Infow("admin account already exists", "email", adminEmail)
			return
		}
		sugar.Fatalw("seed admin error", "error", err.Error())
	}

	sugar.Infow("admin account created", "id", admin.ID, "email", admin.Email)
}
