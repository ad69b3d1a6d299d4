package models

import "time"

// Store is a seller's single storefront grouping their products.
// At most one store exists per seller, enforced by the unique index on
// vendedor_id and the find-before-create check in the store service.
type Store struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	Name         string    `gorm:"column:nome;not null" json:"nome"`
	Description  string    `gorm:"column:descricao;not null" json:"descricao"`
	ProfileImage string    `gorm:"column:imagem_perfil" json:"imagemPerfil,omitempty"`
	SellerID     uint      `gorm:"column:vendedor_id;not null;uniqueIndex" json:"vendedorId"`
	Seller       *User     `gorm:"foreignKey:SellerID" json:"vendedor,omitempty"`
	Products     []Product `gorm:"foreignKey:StoreID" json:"produtos,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// TableName specifies the table name for GORM.
func (Store) TableName() string {
	return "lojas"
}
