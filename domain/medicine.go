package domain

type Medicine struct {
	SerialNo int64   `db:"serial_no" json:"serial_no"`
	Name     string  `db:"name" json:"name"`
	Symptom  string  `db:"symptom" json:"symptom"`
	Brand    string  `db:"brand" json:"brand"`
	Stock    int64   `db:"stock" json:"stock"`
	Price    float64 `db:"price" json:"price"`
}

// LowStockThreshold is the stock level below which a medicine is reported as low.
const LowStockThreshold = 10

type MedicalCompany struct {
	SerialNo int64  `db:"serial_no" json:"serial_no"`
	Name     string `db:"name" json:"name"`
}
