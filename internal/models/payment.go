package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Payment struct {
	ID            primitive.ObjectID   `json:"_id" bson:"_id,omitempty"`
	CustomerEmail string               `json:"customerEmail" bson:"customerEmail"`
	Amount        float64              `json:"amount" bson:"amount"`
	TransactionID string               `json:"transactionId" bson:"transactionId"`
	Date          time.Time            `json:"date" bson:"date"`
	CartID        primitive.ObjectID   `json:"cartId" bson:"cartId"`
	CartItems     []primitive.ObjectID `json:"cartItems,omitempty" bson:"cartItems,omitempty"`
	// CartCleared flips to true once the referenced cart rows are gone.
	CartCleared bool `json:"cartCleared" bson:"cartCleared"`
}

// CartIDs returns every cart row the payment consumes, without duplicates.
func (p *Payment) CartIDs() []primitive.ObjectID {
	seen := make(map[primitive.ObjectID]struct{}, len(p.CartItems)+1)
	ids := make([]primitive.ObjectID, 0, len(p.CartItems)+1)
	for _, id := range append([]primitive.ObjectID{p.CartID}, p.CartItems...) {
		if id.IsZero() {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		ids = append(ids, id)
	}
	return ids
}

// AdminStats is the dashboard summary served to admins.
type AdminStats struct {
	Revenue   float64 `json:"revenue"`
	Customers int64   `json:"customers"`
	Classes   int64   `json:"classes"`
	Orders    int64   `json:"orders"`
}
