package taxcategory

// TaxRate is one rate of a tax category. ID is only set on rates read from the platform.
type TaxRate struct {
	ID              string  `json:"id,omitempty"`
	Name            string  `json:"name"`
	Amount          float64 `json:"amount"`
	IncludedInPrice bool    `json:"includedInPrice"`
	Country         string  `json:"country"`
	State           string  `json:"state,omitempty"`
}

// rateKey identifies a rate within its tax category.
func rateKey(r TaxRate) string {
	if r.State == "" {
		return r.Country
	}
	return r.Country + "_" + r.State
}

// sameRate compares every field but the id.
func sameRate(a, b TaxRate) bool {
	a.ID, b.ID = "", ""
	return a == b
}

// Draft is the desired state of a tax category.
type Draft struct {
	Key         string    `json:"key"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	Rates       []TaxRate `json:"rates,omitempty"`
}

func (d *Draft) GetKey() string      { return d.Key }
func (d *Draft) DisplayName() string { return d.Name }

// TaxCategory is a tax category as stored on the platform.
type TaxCategory struct {
	ID          string    `json:"id"`
	Version     int64     `json:"version"`
	Key         string    `json:"key"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	Rates       []TaxRate `json:"rates,omitempty"`
}

func (t *TaxCategory) GetID() string     { return t.ID }
func (t *TaxCategory) GetKey() string    { return t.Key }
func (t *TaxCategory) GetVersion() int64 { return t.Version }
