package taxcategory

type changeName struct {
	Name string `json:"name"`
}

type setDescription struct {
	Description string `json:"description,omitempty"`
}

type addTaxRate struct {
	TaxRate TaxRate `json:"taxRate"`
}

type replaceTaxRate struct {
	TaxRateID string  `json:"taxRateId"`
	TaxRate   TaxRate `json:"taxRate"`
}

type removeTaxRate struct {
	TaxRateID string `json:"taxRateId"`
}

func (changeName) ActionName() string     { return "changeName" }
func (setDescription) ActionName() string { return "setDescription" }
func (addTaxRate) ActionName() string     { return "addTaxRate" }
func (replaceTaxRate) ActionName() string { return "replaceTaxRate" }
func (removeTaxRate) ActionName() string  { return "removeTaxRate" }
