package entities

import (
	"time"
)

// Book is a persisted catalog entry. Optional fields are nil when absent,
// never zero-valued placeholders.
type Book struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	Name       string    `gorm:"index;size:512;not null" json:"name"`
	Author     string    `gorm:"index;size:256;not null" json:"author"`
	UserRating *float64  `json:"userRating"`
	Reviews    *int64    `json:"reviews"`
	Price      *float64  `json:"price"`
	Year       *int64    `json:"year"`
	Genre      *string   `gorm:"size:128" json:"genre"`
	CreatedAt  time.Time `json:"-"`
}

func (Book) TableName() string {
	return "books"
}

// BookDraft is a validated book that has not been persisted yet.
// It has no ID: identifiers are only ever assigned by the store.
type BookDraft struct {
	Name       string
	Author     string
	UserRating *float64
	Reviews    *int64
	Price      *float64
	Year       *int64
	Genre      *string
}

// ToBook converts the draft into an unsaved Book.
func (d BookDraft) ToBook() Book {
	return Book{
		Name:       d.Name,
		Author:     d.Author,
		UserRating: d.UserRating,
		Reviews:    d.Reviews,
		Price:      d.Price,
		Year:       d.Year,
		Genre:      d.Genre,
	}
}
