package models

// QuoteSequence backs the per-year quote number counter (ATQ-YYYY-NNNN).
type QuoteSequence struct {
	Year      int `gorm:"column:year;primaryKey"`
	LastValue int `gorm:"column:last_value;not null;default:0"`
}

// TableName implements schema.Tabler.
func (QuoteSequence) TableName() string {
	return "quote_sequences"
}
