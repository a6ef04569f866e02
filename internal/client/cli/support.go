package cli

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/avidals/bocado/internal/client/api"
	"github.com/avidals/bocado/internal/client/models"
)

func (a *App) ShowReviews(ctx context.Context, args []string) {
	if len(args) == 0 {
		fmt.Println("Usage: reviews <product-slug>")
		return
	}
	reviews, err := a.gw.ProductReviews(ctx, args[0])
	if err != nil {
		printAPIError("Could not load reviews", err)
		return
	}
	if len(reviews) == 0 {
		fmt.Println("No reviews yet")
		return
	}
	for _, r := range reviews {
		fmt.Printf("[%d] %d/5 %s\n", r.ID, r.Rating, r.Comment)
	}
}

func (a *App) WriteReview(ctx context.Context, args []string) {
	if len(args) < 2 {
		fmt.Println("Usage: review <product-slug> <rating 1-5> [comment]")
		return
	}
	rating, err := strconv.Atoi(args[1])
	if err != nil || rating < 1 || rating > 5 {
		fmt.Println("rating must be a number from 1 to 5")
		return
	}
	review := models.Review{
		Product: args[0],
		Rating:  rating,
		Comment: strings.Join(args[2:], " "),
	}
	if _, err := a.gw.CreateReview(ctx, review); err != nil {
		printAPIError("Could not submit review", err)
		return
	}
	fmt.Println("Review submitted")
}

func (a *App) Contact(ctx context.Context) {
	name, err := GetSimpleText(a.reader, "Your name", os.Stdout)
	if err != nil {
		fmt.Printf("error: %v\n", err)
		return
	}
	email, _ := GetSimpleText(a.reader, "Your email", os.Stdout)
	subject, _ := GetSimpleText(a.reader, "Subject", os.Stdout)
	message, err := GetSimpleText(a.reader, "Message", os.Stdout)
	if err != nil {
		fmt.Printf("error: %v\n", err)
		return
	}

	msg := api.ContactMessage{Name: name, Email: email, Subject: subject, Message: message}
	if err := a.gw.SendContactMessage(ctx, msg); err != nil {
		printAPIError("Could not send message", err)
		return
	}
	fmt.Println("Message sent")
}

func (a *App) Ask(ctx context.Context, args []string) {
	if len(args) == 0 {
		fmt.Println("Usage: ask <question>")
		return
	}
	answer, err := a.gw.AskChatbot(ctx, strings.Join(args, " "))
	if err != nil {
		printAPIError("Could not reach the assistant", err)
		return
	}
	fmt.Println(answer)
}
