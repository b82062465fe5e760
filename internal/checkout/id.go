package checkout

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
)

const (
	orderIDPrefix    = "ORD"
	orderSuffixChars = 9
	confirmationPage = "/order-success.html"
)

// NewOrderID builds "ORD-<unix millis>-<9 upper-case alphanumerics>".
func NewOrderID(now time.Time) string {
	suffix := strings.ReplaceAll(uuid.NewString(), "-", "")[:orderSuffixChars]
	return fmt.Sprintf("%s-%d-%s", orderIDPrefix, now.UnixMilli(), strings.ToUpper(suffix))
}

// ConfirmationPath is where the client goes after a successful checkout.
func ConfirmationPath(orderID string) string {
	return confirmationPage + "?" + url.Values{"order_id": {orderID}}.Encode()
}
