package models

// Observation is one persisted reading: where the user was, when it was
// recorded, and the prices seen at that stop. Rows are append-only; there is
// no update or delete on history.
//
// Metric columns are nullable on purpose. An omitted field is stored as NULL
// and stays distinguishable from a submitted price of 0; the chart pipeline
// applies its own non-positive filter on top of that.
type Observation struct {
	ID        uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	Latitude  float64   `gorm:"not null" json:"latitude"`
	Longitude float64   `gorm:"not null" json:"longitude"`
	DataHora  LocalTime `gorm:"column:data_hora;type:text;not null" json:"dataHora"`

	Gasolina   *float64 `gorm:"column:gasolina" json:"gasolina,omitempty"`
	Etanol     *float64 `gorm:"column:etanol" json:"etanol,omitempty"`
	Diesel     *float64 `gorm:"column:diesel" json:"diesel,omitempty"`
	Calibragem *float64 `gorm:"column:calibragem" json:"calibragem,omitempty"`
}

// TableName keeps the table name existing data files already use.
func (Observation) TableName() string { return "registros" }

// MetricValue pairs a raw column name with its recorded value (nil = NULL).
type MetricValue struct {
	Field string
	Value *float64
}

// MetricFields lists the metric columns in schema order.
var MetricFields = []string{"gasolina", "etanol", "diesel", "calibragem"}

// Metrics expands the fixed metric columns into (field, value) pairs, in
// MetricFields order. This is the typed replacement for melting by column
// name.
func (o *Observation) Metrics() []MetricValue {
	return []MetricValue{
		{Field: "gasolina", Value: o.Gasolina},
		{Field: "etanol", Value: o.Etanol},
		{Field: "diesel", Value: o.Diesel},
		{Field: "calibragem", Value: o.Calibragem},
	}
}
