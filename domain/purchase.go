package domain

import "time"

type PurchaseOrder struct {
	PurchaseID         int64     `db:"purchase_id" json:"purchase_id"`
	InvoiceNumber      string    `db:"invoice_number" json:"invoice_number"`
	PharmacistUsername string    `db:"pharmacist_username" json:"pharmacist_username"`
	TotalAmount        float64   `db:"total_amount" json:"total_amount"`
	PurchaseDate       time.Time `db:"purchase_date" json:"purchase_date"`
}

type PharmaPurchase struct {
	PurchaseID         int64     `db:"purchase_id" json:"purchase_id"`
	PharmacistUsername string    `db:"pharmacist_username" json:"pharmacist_username"`
	MedicineName       string    `db:"medicine_name" json:"medicine_name"`
	Quantity           int64     `db:"quantity" json:"quantity"`
	Price              float64   `db:"price" json:"price"`
	TotalAmount        float64   `db:"total_amount" json:"total_amount"`
	PurchaseDate       time.Time `db:"purchase_date" json:"purchase_date"`
}
