package simulation

// Result is the SimulationResult record. Every field is derived by Calculate.
type Result struct {
	Revenue                       float64 `json:"revenue"`
	GrossSalaryAnnual             float64 `json:"grossSalaryAnnual"`
	TotalBenefitsInKind           float64 `json:"totalBenefitsInKind"`
	ContributionBase              float64 `json:"contributionBase"`
	SocialContributions           float64 `json:"socialContributions"`
	ProfessionalExpensesDeduction float64 `json:"professionalExpensesDeduction"`
	TaxableIncome                 float64 `json:"taxableIncome"`
	IPP                           float64 `json:"ipp"`
	NetAnnual                     float64 `json:"netAnnual"`
	NetMonthly                    float64 `json:"netMonthly"`

	TotalDeductiblesAnnual float64 `json:"totalDeductiblesAnnual"`
	NonAdmittedExpenses    float64 `json:"nonAdmittedExpenses"`
	TotalCompanyExpenses   float64 `json:"totalCompanyExpenses"`
	TaxableProfit          float64 `json:"taxableProfit"`
	ReducedRateApplied     bool    `json:"reducedRateApplied"`
	CorpTax                float64 `json:"corpTax"`
	Reserves               float64 `json:"reserves"`

	NetCombinedAnnual  float64 `json:"netCombinedAnnual"`
	NetCombinedMonthly float64 `json:"netCombinedMonthly"`
}

// ExpenseLine is one annualized company expense.
type ExpenseLine struct {
	Name   string  `json:"name"`
	Annual float64 `json:"annual"`
}
