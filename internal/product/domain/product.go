package domain

import "time"

// Product links chats and reviews for one consumer product. Rows are created
// lazily when the AI pass identifies the product behind a query.
type Product struct {
	ID        string    `json:"id" gorm:"primaryKey"`
	Name      string    `json:"name" gorm:"uniqueIndex;not null"`
	CreatedAt time.Time `json:"created_at"`
}

func (Product) TableName() string {
	return "products"
}
