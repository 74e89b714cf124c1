package common

const (
	AccountTypeAsset     = "ASSET"
	AccountTypeLiability = "LIABILITY"
	AccountTypeEquity    = "EQUITY"
	AccountTypeIncome    = "INCOME"
	AccountTypeExpense   = "EXPENSE"

	InvoiceStatusDraft    = "DRAFT"
	InvoiceStatusSent     = "SENT"
	InvoiceStatusApproved = "APPROVED"
	InvoiceStatusPaid     = "PAID"

	TrustTransactionTypeCredit = "CREDIT"
	TrustTransactionTypeDebit  = "DEBIT"

	BankTransactionTypeCredit = "CREDIT"
	BankTransactionTypeDebit  = "DEBIT"

	PaymentGatewayTrust = "TRUST"
	PaymentGatewayBank  = "BANK"

	AdvanceAccountTypeTrust   = "TRUST"
	AdvanceAccountTypeExpense = "EXPENSE"

	UserRoleOwner      = "owner"
	UserRoleAccountant = "accountant"
	UserRoleMember     = "member"
)

// AccountTypes lists every valid chart-of-accounts classification.
var AccountTypes = []string{
	AccountTypeAsset,
	AccountTypeLiability,
	AccountTypeEquity,
	AccountTypeIncome,
	AccountTypeExpense,
}

func ValidAccountType(t string) bool {
	for _, at := range AccountTypes {
		if at == t {
			return true
		}
	}
	return false
}
