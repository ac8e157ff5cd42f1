package paystack

// MinorUnits converts a whole-unit amount to the gateway's minor units
// (1 unit = 100 kobo). This is the only place the conversion lives; callers
// must pass whole units and never pre-multiply.
func MinorUnits(amount int64) int64 {
	return amount * 100
}

// CheckoutMetadata rides along with the charge and comes back on webhooks
// and verify responses.
type CheckoutMetadata struct {
	FundID    uint   `json:"fund_id"`
	FundTitle string `json:"fund_title"`
	DonorName string `json:"donor_name"`
}

// CheckoutParams is everything the browser-side inline widget needs to open
// a charge. Only the public key appears here.
type CheckoutParams struct {
	Reference string           `json:"reference"`
	Email     string           `json:"email"`
	Amount    int64            `json:"amount"` // minor units
	PublicKey string           `json:"public_key"`
	Metadata  CheckoutMetadata `json:"metadata"`
}

// Checkout builds widget parameters for a charge of amount whole units.
func (c *Client) Checkout(reference, email string, amount int64, meta CheckoutMetadata) CheckoutParams {
	return CheckoutParams{
		Reference: reference,
		Email:     email,
		Amount:    MinorUnits(amount),
		PublicKey: c.PublicKey,
		Metadata:  meta,
	}
}
