package cli

import (
	"context"
	"fmt"
	"strings"
)

func (a *App) getStatus() string {
	if u := a.session.User(); u != nil {
		return fmt.Sprintf("(%s)", u.Email)
	}
	return ""
}

// Root runs the read-eval-print loop. Command handlers report their own
// errors; the loop just dispatches and keeps going until EOF or exit.
func (a *App) Root(ctx context.Context) {
	fmt.Println("Welcome to Bocado CLI (type 'help' for commands)")

	for {
		a.flushNotification()
		fmt.Printf("bocado %s> ", a.getStatus())
		line, err := a.reader.ReadString('\n')
		if err != nil {
			break
		}
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}

		cmd := parts[0]
		args := parts[1:]

		switch cmd {
		case "help":
			if a.isLoggedIn() {
				fmt.Println("Available commands: menu, products, product <slug>, search <text>,")
				fmt.Println("  cart, add <product-id> <qty>, update <item-id> <qty>, remove <item-id>, clearcart,")
				fmt.Println("  orders, order <id>, checkout, cancel <id>, invoice <id>,")
				fmt.Println("  reviews <slug>, review <slug> <rating> [comment], ask <question>, contact,")
				fmt.Println("  profile, logout, exit")
			} else {
				fmt.Println("Available commands: register, login, verify <token>, resetpassword, menu, products, product <slug>,")
				fmt.Println("  search <text>, reviews <slug>, ask <question>, contact, exit")
			}
		case "register":
			a.Register(ctx)
		case "login":
			a.Login(ctx)
		case "logout":
			a.Logout(ctx)
		case "resetpassword":
			a.ResetPassword(ctx)
		case "verify":
			a.VerifyEmail(ctx, args)
		case "resetconfirm":
			a.ConfirmReset(ctx)
		case "profile":
			a.ShowProfile(ctx)
		case "menu":
			a.ShowCategories(ctx)
		case "products":
			a.ShowProducts(ctx, "")
		case "search":
			a.ShowProducts(ctx, strings.Join(args, " "))
		case "product":
			if len(args) == 0 {
				fmt.Println("Usage: product <slug>")
				continue
			}
			a.ShowProduct(ctx, args[0])
		case "cart":
			a.ShowCart(ctx)
		case "add":
			a.AddToCart(ctx, args)
		case "update":
			a.UpdateCartItem(ctx, args)
		case "remove":
			a.RemoveCartItem(ctx, args)
		case "clearcart":
			a.ClearCart(ctx)
		case "orders":
			a.ShowOrders(ctx)
		case "order":
			a.ShowOrder(ctx, args)
		case "checkout":
			a.Checkout(ctx)
		case "cancel":
			a.CancelOrder(ctx, args)
		case "invoice":
			a.DownloadInvoice(ctx, args)
		case "reviews":
			a.ShowReviews(ctx, args)
		case "review":
			a.WriteReview(ctx, args)
		case "contact":
			a.Contact(ctx)
		case "ask":
			a.Ask(ctx, args)
		case "exit", "quit":
			fmt.Println("Bye!")
			return
		default:
			fmt.Println("Unknown command:", cmd)
		}
	}
}
