package api

import (
	"context"
	"fmt"
	"net/url"

	"github.com/avidals/bocado/internal/client/models"
)

// Ancillary endpoint wrappers: reviews, contact, chatbot. These are plain
// passthroughs with no state of their own; they exist so callers never build
// paths by hand.

type ContactMessage struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Subject string `json:"subject,omitempty"`
	Message string `json:"message"`
}

func (g *Gateway) SendContactMessage(ctx context.Context, msg ContactMessage) error {
	return g.Post(ctx, "/contact/send-message/", msg, nil)
}

func (g *Gateway) AskChatbot(ctx context.Context, message string) (string, error) {
	req := map[string]string{"message": message}
	var resp struct {
		Answer string `json:"answer"`
	}
	if err := g.Post(ctx, "/chatbot/ask/", req, &resp); err != nil {
		return "", err
	}
	return resp.Answer, nil
}

func (g *Gateway) ProductReviews(ctx context.Context, productSlug string) ([]models.Review, error) {
	q := url.Values{"product": {productSlug}}
	var reviews []models.Review
	if err := g.Get(ctx, "/reviews/reviews/", q, &reviews); err != nil {
		return nil, err
	}
	return reviews, nil
}

func (g *Gateway) CreateReview(ctx context.Context, review models.Review) (models.Review, error) {
	var created models.Review
	if err := g.Post(ctx, "/reviews/reviews/", review, &created); err != nil {
		return models.Review{}, err
	}
	return created, nil
}

func (g *Gateway) UpdateReview(ctx context.Context, id int64, review models.Review) (models.Review, error) {
	var updated models.Review
	if err := g.Patch(ctx, fmt.Sprintf("/reviews/reviews/%d/", id), review, &updated); err != nil {
		return models.Review{}, err
	}
	return updated, nil
}

func (g *Gateway) DeleteReview(ctx context.Context, id int64) error {
	return g.Delete(ctx, fmt.Sprintf("/reviews/reviews/%d/", id), nil)
}
