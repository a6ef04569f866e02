package cli

import (
	"context"
	"fmt"
	"strconv"
)

func (a *App) ShowCart(ctx context.Context) {
	if err := a.cart.Fetch(ctx); err != nil {
		printAPIError("Could not load cart", err)
		return
	}
	a.printCart()
}

func (a *App) AddToCart(ctx context.Context, args []string) {
	if len(args) < 1 {
		fmt.Println("Usage: add <product-id> [qty]")
		return
	}
	productID, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		fmt.Println("product id must be a number")
		return
	}
	qty := 1
	if len(args) > 1 {
		if qty, err = strconv.Atoi(args[1]); err != nil || qty < 1 {
			fmt.Println("quantity must be a positive number")
			return
		}
	}
	if err := a.cart.AddItem(ctx, productID, qty); err != nil {
		printAPIError("Could not add item", err)
		return
	}
	a.printCart()
}

func (a *App) UpdateCartItem(ctx context.Context, args []string) {
	if len(args) < 2 {
		fmt.Println("Usage: update <item-id> <qty>")
		return
	}
	itemID, err1 := strconv.ParseInt(args[0], 10, 64)
	qty, err2 := strconv.Atoi(args[1])
	if err1 != nil || err2 != nil || qty < 1 {
		fmt.Println("item id and quantity must be positive numbers")
		return
	}
	if err := a.cart.UpdateItem(ctx, itemID, qty); err != nil {
		printAPIError("Could not update item", err)
		return
	}
	a.printCart()
}

func (a *App) RemoveCartItem(ctx context.Context, args []string) {
	if len(args) < 1 {
		fmt.Println("Usage: remove <item-id>")
		return
	}
	itemID, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		fmt.Println("item id must be a number")
		return
	}
	if err := a.cart.RemoveItem(ctx, itemID); err != nil {
		printAPIError("Could not remove item", err)
		return
	}
	a.printCart()
}

func (a *App) ClearCart(ctx context.Context) {
	if err := a.cart.Clear(ctx); err != nil {
		printAPIError("Could not clear cart", err)
		return
	}
	fmt.Println("Cart cleared")
}

func (a *App) printCart() {
	st := a.cart.Snapshot()
	if len(st.Items) == 0 {
		fmt.Println("Cart is empty")
		return
	}
	for _, item := range st.Items {
		fmt.Printf("[%d] %dx %-25s %8s\n", item.ID, item.Quantity, item.Product.Name, item.Product.Price.Display())
	}
	fmt.Printf("total: %s\n", st.TotalPrice.Display())
}
