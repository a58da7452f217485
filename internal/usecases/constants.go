package usecases

// Receipt numbers look like DON-<unix millis>-<suffix>
const (
	ReceiptPrefix         = "DON"
	receiptSuffixAlphabet = "0123456789abcdefghijklmnopqrstuvwxyz"
	receiptSuffixLength   = 9
)

// Admin charity listing page sizes
const (
	DefaultCharityPageSize = 10
	MaxCharityPageSize     = 100
)

// Simulated payment ids are issued when no gateway charge happens
const SimulatedPaymentPrefix = "DEV"
