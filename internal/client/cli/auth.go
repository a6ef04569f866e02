package cli

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/avidals/bocado/internal/client/api"
)

func (a *App) Login(ctx context.Context) {
	email, err := GetSimpleText(a.reader, "Enter email", os.Stdout)
	if err != nil {
		fmt.Printf("error: %v\n", err)
		return
	}
	password, err := GetPassword(os.Stdout)
	if err != nil {
		fmt.Printf("error: %v\n", err)
		return
	}

	user, err := a.session.Login(ctx, email, password)
	if err != nil {
		if api.IsKind(err, api.KindAuth) {
			fmt.Println("Login failed: invalid email or password")
		} else {
			fmt.Printf("Login failed: %v\n", err)
		}
		return
	}
	fmt.Printf("Logged in as %s\n", user.Email)
}

func (a *App) Register(ctx context.Context) {
	email, err := GetSimpleText(a.reader, "Enter email", os.Stdout)
	if err != nil {
		fmt.Printf("error: %v\n", err)
		return
	}
	firstName, _ := GetSimpleText(a.reader, "First name", os.Stdout)
	lastName, _ := GetSimpleText(a.reader, "Last name", os.Stdout)
	password, err := GetPassword(os.Stdout)
	if err != nil {
		fmt.Printf("error: %v\n", err)
		return
	}

	fields := map[string]any{
		"email":      email,
		"first_name": firstName,
		"last_name":  lastName,
		"password":   password,
	}
	if err := a.session.Register(ctx, fields); err != nil {
		printAPIError("Registration failed", err)
		return
	}
	fmt.Println("Registered. Check your inbox for a verification email, then log in.")
}

func (a *App) VerifyEmail(ctx context.Context, args []string) {
	if len(args) == 0 {
		fmt.Println("Usage: verify <token>")
		return
	}
	if err := a.session.VerifyEmail(ctx, args[0]); err != nil {
		printAPIError("Verification failed", err)
		return
	}
	fmt.Println("Email verified, you can log in now")
}

func (a *App) Logout(ctx context.Context) {
	a.session.Logout(ctx)
	fmt.Println("Logged out")
}

func (a *App) ResetPassword(ctx context.Context) {
	email, err := GetSimpleText(a.reader, "Enter email", os.Stdout)
	if err != nil {
		fmt.Printf("error: %v\n", err)
		return
	}
	if err := a.session.RequestPasswordReset(ctx, email); err != nil {
		printAPIError("Password reset failed", err)
		return
	}
	fmt.Println("Password reset email sent")
}

func (a *App) ConfirmReset(ctx context.Context) {
	token, err := GetSimpleText(a.reader, "Reset token from the email", os.Stdout)
	if err != nil {
		fmt.Printf("error: %v\n", err)
		return
	}
	password, err := GetPassword(os.Stdout)
	if err != nil {
		fmt.Printf("error: %v\n", err)
		return
	}
	password2, err := GetPassword(os.Stdout)
	if err != nil {
		fmt.Printf("error: %v\n", err)
		return
	}
	if err := a.session.ConfirmPasswordReset(ctx, token, password, password2); err != nil {
		printAPIError("Password reset failed", err)
		return
	}
	fmt.Println("Password changed, log in with the new one")
}

func (a *App) ShowProfile(ctx context.Context) {
	if err := a.profile.Fetch(ctx); err != nil {
		printAPIError("Could not load profile", err)
		return
	}
	u := a.profile.User()
	if u == nil {
		fmt.Println("Not logged in")
		return
	}
	fmt.Printf("%s %s <%s>\n", u.FirstName, u.LastName, u.Email)
	if u.Phone != "" {
		fmt.Printf("phone: %s\n", u.Phone)
	}
	if u.Address != "" {
		fmt.Printf("address: %s\n", u.Address)
	}
}

// printAPIError renders the structured error, with field detail for
// validation failures.
func printAPIError(prefix string, err error) {
	var e *api.Error
	if !errors.As(err, &e) {
		fmt.Printf("%s: %v\n", prefix, err)
		return
	}
	fmt.Printf("%s: %s\n", prefix, e.Message)
	for field, msgs := range e.Fields {
		for _, m := range msgs {
			fmt.Printf("  %s: %s\n", field, m)
		}
	}
}
