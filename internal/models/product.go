package models

import (
	"time"

	"gorm.io/gorm"
)

// Product is an item listed by a store.
type Product struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Name        string    `gorm:"column:nome;not null" json:"nome"`
	Description string    `gorm:"column:descricao;not null" json:"descricao"`
	Price       float64   `gorm:"column:preco;not null" json:"preco"`
	Image       string    `gorm:"column:imagem" json:"imagem,omitempty"`
	Featured    bool      `gorm:"column:destaque;not null;default:false" json:"destaque"`
	Likes       int       `gorm:"column:curtidas;not null;default:0" json:"curtidas"`
	StoreID     uint      `gorm:"column:loja_id;not null;index" json:"lojaId"`
	Store       *Store    `gorm:"foreignKey:StoreID" json:"loja,omitempty"`
	Comments    []Comment `gorm:"foreignKey:ProductID" json:"comentarios,omitempty"`
	// Liked indicates whether the requesting visitor liked this product (computed)
	Liked     bool           `gorm:"-" json:"curtido"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// TableName specifies the table name for GORM.
func (Product) TableName() string {
	return "produtos"
}
