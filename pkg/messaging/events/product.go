package events

import (
	"encoding/json"
	"time"

	"github.com/artztall/product_service/pkg/messaging"
)

type ProductCreatedEvent struct {
	ProductID string    `json:"product_id"`
	ArtistID  string    `json:"artist_id"`
	Price     float64   `json:"price"`
	CreatedAt time.Time `json:"created_at"`
}

func (e ProductCreatedEvent) Subject() string {
	return messaging.ProductsCreatedSubject
}

func (e ProductCreatedEvent) Payload() ([]byte, error) {
	return json.Marshal(e)
}

type ProductReservedEvent struct {
	ProductID  string    `json:"product_id"`
	ArtistID   string    `json:"artist_id"`
	ReservedAt time.Time `json:"reserved_at"`
}

func (e ProductReservedEvent) Subject() string {
	return messaging.ProductsReservedSubject
}

func (e ProductReservedEvent) Payload() ([]byte, error) {
	return json.Marshal(e)
}

type ProductReleasedEvent struct {
	ProductID  string    `json:"product_id"`
	ArtistID   string    `json:"artist_id"`
	ReleasedAt time.Time `json:"released_at"`
}

func (e ProductReleasedEvent) Subject() string {
	return messaging.ProductsReleasedSubject
}

func (e ProductReleasedEvent) Payload() ([]byte, error) {
	return json.Marshal(e)
}
