// Package seed provides database seeding utilities for development and
// demo environments.
package seed

import (
	"fmt"
	"log"
	"math/rand"
	"strings"
	"time"

	"github.com/brianvoe/gofakeit/v6"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"oacmarket/internal/models"
)

// Options configures the seeder.
type Options struct {
	NumSellers       int
	NumBuyers        int
	ProductsPerStore int
	ShouldClean      bool
}

// DefaultPassword is the login password of every seeded account.
const DefaultPassword = "senha123"

var (
	storePrefixes = []string{
		"Ateliê", "Cantinho", "Empório", "Oficina", "Casa", "Arte de", "Boutique",
	}

	productNames = []string{
		"Caneca de cerâmica", "Vaso decorativo", "Tapete de crochê", "Colar artesanal",
		"Quadro em macramê", "Sabonete natural", "Vela aromática", "Bolsa de tecido",
		"Chaveiro de couro", "Porta-retrato rústico", "Luminária de bambu",
		"Jogo americano bordado", "Caderno encadernado à mão", "Brinco de miçanga",
	}

	commentTexts = []string{
		"Que lindo! Tem como personalizar?",
		"Adorei o acabamento.",
		"Já comprei e recomendo muito.",
		"Faz entrega para todo o Brasil?",
		"Trabalho maravilhoso, parabéns!",
		"Qual o prazo de produção?",
	}
)

// Run populates the database with sellers, stores, products and comments.
func Run(db *gorm.DB, opts Options) error {
	gofakeit.Seed(time.Now().UnixNano())
	r := rand.New(rand.NewSource(time.Now().UnixNano()))

	if opts.NumSellers <= 0 {
		opts.NumSellers = 5
	}
	if opts.NumBuyers <= 0 {
		opts.NumBuyers = 10
	}
	if opts.ProductsPerStore <= 0 {
		opts.ProductsPerStore = 4
	}

	if opts.ShouldClean {
		if err := clean(db); err != nil {
			return err
		}
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(DefaultPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash seed password: %w", err)
	}

	for i := 0; i < opts.NumSellers; i++ {
		seller := &models.User{
			Name:     gofakeit.Name(),
			Email:    fmt.Sprintf("vendedor%d@example.com", i+1),
			Password: string(hash),
			Role:     models.RoleSeller,
			WhatsApp: gofakeit.Phone(),
		}
		if err := db.Create(seller).Error; err != nil {
			return fmt.Errorf("seed seller: %w", err)
		}

		store := &models.Store{
			Name:        storeName(r, seller.Name),
			Description: gofakeit.Sentence(12),
			SellerID:    seller.ID,
		}
		if err := db.Create(store).Error; err != nil {
			return fmt.Errorf("seed store: %w", err)
		}

		for j := 0; j < opts.ProductsPerStore; j++ {
			product := &models.Product{
				Name:        productNames[r.Intn(len(productNames))],
				Description: gofakeit.Sentence(15),
				Price:       float64(r.Intn(20000)) / 100,
				Image:       fmt.Sprintf("https://picsum.photos/seed/%s/600/600", gofakeit.UUID()),
				Featured:    r.Intn(10) == 0,
				StoreID:     store.ID,
				CreatedAt:   time.Now().Add(-time.Duration(r.Intn(90*24)) * time.Hour),
			}
			if err := db.Create(product).Error; err != nil {
				return fmt.Errorf("seed product: %w", err)
			}

			for k := 0; k < r.Intn(3); k++ {
				comment := &models.Comment{
					Author:    commentAuthor(r),
					Text:      commentTexts[r.Intn(len(commentTexts))],
					ProductID: product.ID,
				}
				if err := db.Create(comment).Error; err != nil {
					return fmt.Errorf("seed comment: %w", err)
				}
			}
		}
	}

	for i := 0; i < opts.NumBuyers; i++ {
		buyer := &models.User{
			Name:     gofakeit.Name(),
			Email:    fmt.Sprintf("comprador%d@example.com", i+1),
			Password: string(hash),
			Role:     models.RoleBuyer,
		}
		if err := db.Create(buyer).Error; err != nil {
			return fmt.Errorf("seed buyer: %w", err)
		}
	}

	log.Printf("seeded %d sellers, %d buyers, %d products per store",
		opts.NumSellers, opts.NumBuyers, opts.ProductsPerStore)
	return nil
}

func clean(db *gorm.DB) error {
	// Delete in dependency order so foreign keys stay satisfied.
	for _, model := range []interface{}{
		&models.Comment{}, &models.Product{}, &models.Store{}, &models.User{},
	} {
		if err := db.Unscoped().Where("1 = 1").Delete(model).Error; err != nil {
			return fmt.Errorf("clean table: %w", err)
		}
	}
	return nil
}

func storeName(r *rand.Rand, sellerName string) string {
	first := strings.Split(sellerName, " ")[0]
	return fmt.Sprintf("%s %s", storePrefixes[r.Intn(len(storePrefixes))], first)
}

func commentAuthor(r *rand.Rand) string {
	// A third of the comments stay anonymous, like real traffic.
	if r.Intn(3) == 0 {
		return ""
	}
	return gofakeit.FirstName()
}
