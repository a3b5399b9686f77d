package transactions

import "encoding/json"

// Line is one requested medicine. Price is only read by Purchase.
type Line struct {
	Name     string      `json:"name"`
	Quantity json.Number `json:"quantity"`
	Price    json.Number `json:"price,omitempty"`
}

type PurchaseRequest struct {
	PharmacistUsername string `json:"pharmacist_username"`
	Medicines          []Line `json:"medicines"`
}

// Invoice echoes the purchased lines as given with the computed total.
type Invoice struct {
	InvoiceNumber string  `json:"invoice_number"`
	Date          string  `json:"date"`
	Pharmacist    string  `json:"pharmacist"`
	Medicines     []Line  `json:"medicines"`
	TotalAmount   float64 `json:"total_amount"`
}

type SaleRequest struct {
	PharmacistUsername string `json:"pharmacist_username"`
	Medicines          []Line `json:"medicines"`
}

type BillItem struct {
	Name     string  `json:"name"`
	Quantity int64   `json:"quantity"`
	Price    float64 `json:"price"`
	Total    string  `json:"total"`
}

// Bill totals are rendered with two decimal places.
type Bill struct {
	InvoiceNumber string     `json:"invoice_number"`
	Date          string     `json:"date"`
	Pharmacist    string     `json:"pharmacist"`
	Items         []BillItem `json:"items"`
	TotalAmount   string     `json:"total_amount"`
}

type Availability struct {
	Name      string `json:"name"`
	Available bool   `json:"available"`
	Stock     int64  `json:"stock"`
}
