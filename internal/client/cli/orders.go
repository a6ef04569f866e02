package cli

import (
	"context"
	"fmt"
	"os"
	"strconv"

	"github.com/avidals/bocado/internal/client/orders"
)

func (a *App) ShowOrders(ctx context.Context) {
	if err := a.orders.Fetch(ctx); err != nil {
		printAPIError("Could not load orders", err)
		return
	}
	st := a.orders.Snapshot()
	if len(st.Orders) == 0 {
		fmt.Println("No orders yet")
		return
	}
	for _, o := range st.Orders {
		fmt.Printf("[%d] %-12s %8s  %s\n", o.ID, o.Status, o.TotalPrice.Display(), o.CreatedAt.Format("2006-01-02 15:04"))
	}
}

func (a *App) ShowOrder(ctx context.Context, args []string) {
	id, ok := parseID(args, "Usage: order <id>")
	if !ok {
		return
	}
	if err := a.orders.FetchDetail(ctx, id); err != nil {
		printAPIError("Could not load order", err)
		return
	}
	o := a.orders.Snapshot().CurrentOrder
	if o == nil {
		return
	}
	fmt.Printf("order %d: %s\n", o.ID, o.Status)
	for _, item := range o.Items {
		fmt.Printf("  %dx %-25s %8s\n", item.Quantity, item.Product.Name, item.Price.Display())
	}
	fmt.Printf("total: %s\n", o.TotalPrice.Display())
}

func (a *App) Checkout(ctx context.Context) {
	address, err := GetSimpleText(a.reader, "Delivery address", os.Stdout)
	if err != nil {
		fmt.Printf("error: %v\n", err)
		return
	}
	notes, _ := GetSimpleText(a.reader, "Notes (optional)", os.Stdout)

	if err := a.orders.Create(ctx, orders.CreateRequest{DeliveryAddress: address, Notes: notes}); err != nil {
		printAPIError("Could not place order", err)
		return
	}

	if a.orders.ConsumeOrderCreated() {
		if o := a.orders.Snapshot().CurrentOrder; o != nil {
			fmt.Printf("Order %d placed, total %s\n", o.ID, o.TotalPrice.Display())
		}
		// The cart was consumed server-side; re-sync our view.
		_ = a.cart.Fetch(ctx)
	}
}

func (a *App) CancelOrder(ctx context.Context, args []string) {
	id, ok := parseID(args, "Usage: cancel <id>")
	if !ok {
		return
	}
	if err := a.orders.Cancel(ctx, id); err != nil {
		printAPIError("Could not cancel order", err)
		return
	}
	fmt.Printf("Order %d cancelled\n", id)
}

func (a *App) DownloadInvoice(ctx context.Context, args []string) {
	id, ok := parseID(args, "Usage: invoice <id>")
	if !ok {
		return
	}
	path, err := a.orders.DownloadInvoice(ctx, id, a.config.DownloadDir)
	if err != nil {
		printAPIError("Could not download invoice", err)
		return
	}
	fmt.Printf("Saved %s\n", path)
}

func parseID(args []string, usage string) (int64, bool) {
	if len(args) == 0 {
		fmt.Println(usage)
		return 0, false
	}
	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		fmt.Println("id must be a number")
		return 0, false
	}
	return id, true
}
