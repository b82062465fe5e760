package cart

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/fjod/storefront/internal/domain"
)

type CommandKind int

const (
	CommandAdd CommandKind = iota
	CommandRemove
	CommandIncrease
	CommandDecrease
	CommandSetQuantity
	CommandClear
)

func (k CommandKind) String() string {
	switch k {
	case CommandAdd:
		return "add"
	case CommandRemove:
		return "remove"
	case CommandIncrease:
		return "increase"
	case CommandDecrease:
		return "decrease"
	case CommandSetQuantity:
		return "set_quantity"
	case CommandClear:
		return "clear"
	default:
		return "unknown"
	}
}

// Command is a UI interaction translated into a cart operation.
type Command struct {
	Kind      CommandKind
	ProductID string
	Product   domain.Product // CommandAdd only
	Quantity  int            // CommandAdd and CommandSetQuantity
}

func Add(p domain.Product, quantity int) Command {
	return Command{Kind: CommandAdd, ProductID: p.ID, Product: p, Quantity: quantity}
}

func Remove(productID string) Command {
	return Command{Kind: CommandRemove, ProductID: productID}
}

func Increase(productID string) Command {
	return Command{Kind: CommandIncrease, ProductID: productID}
}

func Decrease(productID string) Command {
	return Command{Kind: CommandDecrease, ProductID: productID}
}

func SetQuantity(productID string, quantity int) Command {
	return Command{Kind: CommandSetQuantity, ProductID: productID, Quantity: quantity}
}

func Clear() Command {
	return Command{Kind: CommandClear}
}

// Dispatch applies cmd to the model.
func (m *Model) Dispatch(ctx context.Context, cmd Command) error {
	switch cmd.Kind {
	case CommandAdd:
		return m.AddItem(ctx, cmd.Product, cmd.Quantity)
	case CommandRemove:
		return m.RemoveItem(ctx, cmd.ProductID)
	case CommandIncrease:
		return m.IncreaseQuantity(ctx, cmd.ProductID)
	case CommandDecrease:
		return m.DecreaseQuantity(ctx, cmd.ProductID)
	case CommandSetQuantity:
		return m.SetQuantity(ctx, cmd.ProductID, cmd.Quantity)
	case CommandClear:
		return m.Clear(ctx)
	default:
		return fmt.Errorf("unknown cart command %d", cmd.Kind)
	}
}

// ParseQuantity reads a quantity typed by the user. Anything that is not a
// number >= 1 becomes 1.
func ParseQuantity(raw string) int {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || n < 1 {
		return 1
	}
	return n
}
