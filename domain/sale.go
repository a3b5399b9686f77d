package domain

import "time"

type SaleInvoice struct {
	SerialNo           int64     `db:"serial_no" json:"serial_no"`
	InvoiceNumber      string    `db:"invoice_number" json:"invoice_number"`
	PharmacistSerialNo int64     `db:"pharmacist_serial_no" json:"pharmacist_serial_no"`
	Amount             float64   `db:"amount" json:"amount"`
	SaleDate           time.Time `db:"sale_date" json:"sale_date"`
}

type PharmaSale struct {
	SerialNo           int64     `db:"serial_no" json:"serial_no"`
	SaleDate           time.Time `db:"sale_date" json:"sale_date"`
	Amount             float64   `db:"amount" json:"amount"`
	PharmacistSerialNo int64     `db:"pharmacist_serial_no" json:"pharmacist_serial_no"`
	InvoiceNumber      string    `db:"invoice_number" json:"invoice_number"`
	MedicineName       string    `db:"medicine_name" json:"medicine_name"`
	Quantity           int64     `db:"quantity" json:"quantity"`
	Price              float64   `db:"price" json:"price"`
	TotalAmount        float64   `db:"total_amount" json:"total_amount"`
}
