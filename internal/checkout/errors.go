package checkout

import "errors"

const (
	ProcessingMessage = "Processing your order..."
	SuccessMessage    = "Order placed successfully!"
	FailureMessage    = "Failed to process order. Please try again."
)

var (
	ErrCheckoutInProgress = errors.New("checkout already in progress")
	ErrEmptyCart          = errors.New("cart is empty, nothing to checkout")
	ErrIllegalTransition  = errors.New("illegal transition of checkout state")
)
