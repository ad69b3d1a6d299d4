package models

import (
	"time"

	"gorm.io/gorm"
)

// AnonymousAuthor is used when a commenter or messenger gives no name.
const AnonymousAuthor = "Anônimo"

// Comment is an append-only visitor comment on a product.
type Comment struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	Author    string         `gorm:"column:autor;not null;default:'Anônimo'" json:"autor"`
	Text      string         `gorm:"column:texto;not null" json:"texto"`
	ProductID uint           `gorm:"column:produto_id;not null;index" json:"produtoId"`
	Product   *Product       `gorm:"foreignKey:ProductID" json:"produto,omitempty"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// TableName specifies the table name for GORM.
func (Comment) TableName() string {
	return "comentarios"
}
