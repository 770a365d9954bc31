package checkout

// State of the checkout flow for one session.
type State string

const (
	StateEmpty             State = "EMPTY"
	StateAddressCapture    State = "ADDRESS_CAPTURE"
	StateOrderPending      State = "ORDER_PENDING"
	StateAwaitingPayment   State = "AWAITING_PAYMENT"
	StatePaymentProcessing State = "PAYMENT_PROCESSING"
	StateComplete          State = "COMPLETE"
	StateFailed            State = "FAILED"
)

func (s State) IsTerminal() bool {
	return s == StateComplete
}

func (s State) String() string {
	return string(s)
}
