package main

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/alpha-aviation/enrollment-service/internal/auth"
	"github.com/alpha-aviation/enrollment-service/internal/models"
	"github.com/alpha-aviation/enrollment-service/internal/repositories"
)

var (
	errPasswordTooShort = fmt.Errorf("password must be at least %d characters", models.MinPasswordLen)
	errNotAdmin         = errors.New("email belongs to a non-admin account; roles are fixed at creation")
)

// createAdmin creates an admin. For an existing admin it only resets the password;
// any other existing account is left untouched.
func (cli *commandLine) createAdmin(email, pwd, first, last string) error {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if len(pwd) < models.MinPasswordLen {
		return errPasswordTooShort
	}
	hash, err := auth.HashPassword(pwd)
	if err != nil {
		return err
	}

	email = models.NormalizeEmail(email)
	users := cli.store.Users()

	usr, err := users.GetByEmail(ctx, email)
	switch {
	case err == nil:
		if !usr.IsAdmin() {
			return errNotAdmin
		}
		usr.PasswordHash = hash
		if err := users.Update(ctx, usr); err != nil {
			return err
		}
		fmt.Fprintf(cli.out, "Admin %s already exists, password reset\n", email)
		return nil
	case !errors.Is(err, repositories.ErrNotFound):
		return err
	}

	now := time.Now()
	usr = &models.User{
		Email:           email,
		PasswordHash:    hash,
		Role:            models.RoleAdmin,
		FirstName:       strings.TrimSpace(first),
		LastName:        strings.TrimSpace(last),
		PaymentStatus:   models.PaymentPaid,
		EnrollmentDate:  now,
		PaymentMethods:  []string{},
		TrainingMethods: []string{},
	}
	if err := users.Create(ctx, usr); err != nil {
		return err
	}
	fmt.Fprintf(cli.out, "Created admin %s (%s)\n", email, usr.ID)
	return nil
}
