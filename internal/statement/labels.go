package statement

import "stockly/internal/provider"

// Field pairs a provider field name with its display label.
type Field struct {
	Name  string
	Label string
}

// Income statement fields, in display order.
var incomeFields = []Field{
	{"TaxEffectOfUnusualItems", "Tax Effect Of Unusual Items"},
	{"TaxRateForCalcs", "Tax Rate For Calcs"},
	{"NormalizedEBITDA", "Normalized EBITDA"},
	{"NetIncomeFromContinuingOperationNetMinorityInterest", "Net Income From Continuing Operation Net Minority Interest"},
	{"ReconciledDepreciation", "Reconciled Depreciation"},
	{"ReconciledCostOfRevenue", "Reconciled Cost Of Revenue"},
	{"EBITDA", "EBITDA"},
	{"EBIT", "EBIT"},
	{"NetInterestIncome", "Net Interest Income"},
	{"InterestExpense", "Interest Expense"},
	{"InterestIncome", "Interest Income"},
	{"NormalizedIncome", "Normalized Income"},
	{"NetIncomeFromContinuingAndDiscontinuedOperation", "Net Income From Continuing And Discontinued Operation"},
	{"TotalExpenses", "Total Expenses"},
	{"TotalOperatingIncomeAsReported", "Total Operating Income As Reported"},
	{"DilutedAverageShares", "Diluted Average Shares"},
	{"BasicAverageShares", "Basic Average Shares"},
	{"DilutedEPS", "Diluted EPS"},
	{"BasicEPS", "Basic EPS"},
	{"DilutedNIAvailtoComStockholders", "Diluted NI Avail to Com Stockholders"},
	{"NetIncomeCommonStockholders", "Net Income Common Stockholders"},
	{"NetIncome", "Net Income"},
	{"NetIncomeIncludingNoncontrollingInterests", "Net Income Including Noncontrolling Interests"},
	{"NetIncomeContinuousOperations", "Net Income Continuous Operations"},
	{"TaxProvision", "Tax Provision"},
	{"PretaxIncome", "Pretax Income"},
	{"OtherIncomeExpense", "Other Income Expense"},
	{"OtherNonOperatingIncomeExpenses", "Other Non Operating Income Expenses"},
	{"NetNonOperatingInterestIncomeExpense", "Net Non Operating Interest Income Expense"},
	{"InterestExpenseNonOperating", "Interest Expense Non Operating"},
	{"InterestIncomeNonOperating", "Interest Income Non Operating"},
	{"OperatingIncome", "Operating Income"},
	{"OperatingExpense", "Operating Expense"},
	{"ResearchAndDevelopment", "Research And Development"},
	{"SellingGeneralAndAdministration", "Selling General And Administration"},
	{"GrossProfit", "Gross Profit"},
	{"CostOfRevenue", "Cost Of Revenue"},
	{"TotalRevenue", "Total Revenue"},
	{"OperatingRevenue", "Operating Revenue"},
}

// Balance sheet fields, in display order.
var balanceFields = []Field{
	{"TreasurySharesNumber", "Treasury Shares Number"},
	{"OrdinarySharesNumber", "Ordinary Shares Number"},
	{"ShareIssued", "Shares Issued"},
	{"NetDebt", "Net Debt"},
	{"TotalDebt", "Total Debt"},
	{"TangibleBookValue", "Tangible Book Value"},
	{"InvestedCapital", "Invested Capital"},
	{"WorkingCapital", "Working Capital"},
	{"NetTangibleAssets", "Net Tangible Assets"},
	{"CapitalLeaseObligations", "Capital Lease Obligations"},
	{"CommonStockEquity", "Common Stock Equity"},
	{"TotalCapitalization", "Total Capitalization"},
	{"TotalEquityGrossMinorityInterest", "Total Equity Gross Minority Interest"},
	{"StockholdersEquity", "Stockholders Equity"},
	{"GainsLossesNotAffectingRetainedEarnings", "Gains Losses Not Affecting Retained Earnings"},
	{"OtherEquityAdjustments", "Other Equity Adjustments"},
	{"RetainedEarnings", "Retained Earnings"},
	{"CapitalStock", "Capital Stock"},
	{"CommonStock", "Common Stock"},
	{"TotalLiabilitiesNetMinorityInterest", "Total Liabilities Net Minority Interest"},
	{"TotalNonCurrentLiabilitiesNetMinorityInterest", "Total Non-Current Liabilities Net Minority Interest"},
	{"OtherNonCurrentLiabilities", "Other Non-Current Liabilities"},
	{"TradeandOtherPayablesNonCurrent", "Trade and Other Payables Non-Current"},
	{"LongTermDebtAndCapitalLeaseObligation", "Long Term Debt And Capital Lease Obligation"},
	{"LongTermCapitalLeaseObligation", "Long Term Capital Lease Obligation"},
	{"LongTermDebt", "Long Term Debt"},
	{"CurrentLiabilities", "Current Liabilities"},
	{"OtherCurrentLiabilities", "Other Current Liabilities"},
	{"CurrentDeferredLiabilities", "Current Deferred Liabilities"},
	{"CurrentDeferredRevenue", "Current Deferred Revenue"},
	{"CurrentDebtAndCapitalLeaseObligation", "Current Debt And Capital Lease Obligation"},
	{"CurrentCapitalLeaseObligation", "Current Capital Lease Obligation"},
	{"CurrentDebt", "Current Debt"},
	{"OtherCurrentBorrowings", "Other Current Borrowings"},
	{"CommercialPaper", "Commercial Paper"},
	{"PayablesAndAccruedExpenses", "Payables And Accrued Expenses"},
	{"Payables", "Payables"},
	{"TotalTaxPayable", "Total Tax Payable"},
	{"IncomeTaxPayable", "Income Tax Payable"},
	{"AccountsPayable", "Accounts Payable"},
	{"TotalAssets", "Total Assets"},
	{"TotalNonCurrentAssets", "Total Non-Current Assets"},
	{"OtherNonCurrentAssets", "Other Non-Current Assets"},
	{"NonCurrentDeferredAssets", "Non-Current Deferred Assets"},
	{"NonCurrentDeferredTaxesAssets", "Non-Current Deferred Taxes Assets"},
	{"InvestmentsAndAdvances", "Investments And Advances"},
	{"OtherInvestments", "Other Investments"},
	{"InvestmentinFinancialAssets", "Investment in Financial Assets"},
	{"AvailableForSaleSecurities", "Available For Sale Securities"},
	{"NetPPE", "Net PPE"},
	{"AccumulatedDepreciation", "Accumulated Depreciation"},
	{"GrossPPE", "Gross PPE"},
	{"Leases", "Leases"},
	{"OtherProperties", "Other Properties"},
	{"MachineryFurnitureEquipment", "Machinery Furniture Equipment"},
	{"LandAndImprovements", "Land And Improvements"},
	{"Properties", "Properties"},
	{"CurrentAssets", "Current Assets"},
	{"OtherCurrentAssets", "Other Current Assets"},
	{"Inventory", "Inventory"},
	{"Receivables", "Receivables"},
	{"OtherReceivables", "Other Receivables"},
	{"AccountsReceivable", "Accounts Receivable"},
	{"CashCashEquivalentsAndShortTermInvestments", "Cash, Cash Equivalents, and Short Term Investments"},
	{"OtherShortTermInvestments", "Other Short Term Investments"},
	{"CashAndCashEquivalents", "Cash and Cash Equivalents"},
	{"CashEquivalents", "Cash Equivalents"},
	{"CashFinancial", "Cash Financial"},
}

// Cash flow statement fields, in display order.
var cashFlowFields = []Field{
	{"FreeCashFlow", "Free Cash Flow"},
	{"RepurchaseOfCapitalStock", "Repurchase Of Capital Stock"},
	{"RepaymentOfDebt", "Repayment Of Debt"},
	{"IssuanceOfDebt", "Issuance Of Debt"},
	{"IssuanceOfCapitalStock", "Issuance Of Capital Stock"},
	{"CapitalExpenditure", "Capital Expenditure"},
	{"InterestPaidSupplementalData", "Interest Paid Supplemental Data"},
	{"IncomeTaxPaidSupplementalData", "Income Tax Paid Supplemental Data"},
	{"EndCashPosition", "End Cash Position"},
	{"BeginningCashPosition", "Beginning Cash Position"},
	{"ChangesInCash", "Changes In Cash"},
	{"FinancingCashFlow", "Financing Cash Flow"},
	{"CashFlowFromContinuingFinancingActivities", "Cash Flow From Continuing Financing Activities"},
	{"NetOtherFinancingCharges", "Net Other Financing Charges"},
	{"CashDividendsPaid", "Cash Dividends Paid"},
	{"CommonStockDividendPaid", "Common Stock Dividend Paid"},
	{"NetCommonStockIssuance", "Net Common Stock Issuance"},
	{"CommonStockPayments", "Common Stock Payments"},
	{"CommonStockIssuance", "Common Stock Issuance"},
	{"NetIssuancePaymentsOfDebt", "Net Issuance Payments Of Debt"},
	{"NetShortTermDebtIssuance", "Net Short Term Debt Issuance"},
	{"NetLongTermDebtIssuance", "Net Long Term Debt Issuance"},
	{"LongTermDebtPayments", "Long Term Debt Payments"},
	{"LongTermDebtIssuance", "Long Term Debt Issuance"},
	{"InvestingCashFlow", "Investing Cash Flow"},
	{"CashFlowFromContinuingInvestingActivities", "Cash Flow From Continuing Investing Activities"},
	{"NetOtherInvestingChanges", "Net Other Investing Changes"},
	{"NetInvestmentPurchaseAndSale", "Net Investment Purchase And Sale"},
	{"SaleOfInvestment", "Sale Of Investment"},
	{"PurchaseOfInvestment", "Purchase Of Investment"},
	{"NetBusinessPurchaseAndSale", "Net Business Purchase And Sale"},
	{"PurchaseOfBusiness", "Purchase Of Business"},
	{"NetPPEPurchaseAndSale", "Net PPE Purchase And Sale"},
	{"PurchaseOfPPE", "Purchase Of PPE"},
	{"OperatingCashFlow", "Operating Cash Flow"},
	{"CashFlowFromContinuingOperatingActivities", "Cash Flow From Continuing Operating Activities"},
	{"ChangeInWorkingCapital", "Change In Working Capital"},
	{"ChangeInOtherWorkingCapital", "Change In Other Working Capital"},
	{"ChangeInOtherCurrentLiabilities", "Change In Other Current Liabilities"},
	{"ChangeInOtherCurrentAssets", "Change In Other Current Assets"},
	{"ChangeInPayablesAndAccruedExpense", "Change In Payables And Accrued Expense"},
	{"ChangeInPayable", "Change In Payable"},
	{"ChangeInAccountPayable", "Change In Account Payable"},
	{"ChangeInInventory", "Change In Inventory"},
	{"ChangeInReceivables", "Change In Receivables"},
	{"ChangesInAccountReceivables", "Changes In Account Receivables"},
	{"OtherNonCashItems", "Other Non Cash Items"},
	{"StockBasedCompensation", "Stock Based Compensation"},
	{"DeferredTax", "Deferred Tax"},
	{"DeferredIncomeTax", "Deferred Income Tax"},
	{"DepreciationAmortizationDepletion", "Depreciation Amortization Depletion"},
	{"DepreciationAndAmortization", "Depreciation And Amortization"},
	{"NetIncomeFromContinuingOperations", "Net Income From Continuing Operations"},
}

var labels = map[provider.StatementKind]map[string]string{
	provider.Income:       index(incomeFields),
	provider.Balance:      index(balanceFields),
	provider.CashFlowStmt: index(cashFlowFields),
}

func index(fields []Field) map[string]string {
	m := make(map[string]string, len(fields))
	for _, f := range fields {
		m[f.Name] = f.Label
	}
	return m
}

// Fields lists the known fields of a statement kind in display order.
func Fields(kind provider.StatementKind) []Field {
	switch kind {
	case provider.Income:
		return incomeFields
	case provider.Balance:
		return balanceFields
	case provider.CashFlowStmt:
		return cashFlowFields
	}
	return nil
}

// Label returns the display label of a statement field, or the field itself
// when it has none.
func Label(kind provider.StatementKind, field string) string {
	if l, ok := labels[kind][field]; ok {
		return l
	}
	return field
}
